// README: Content analysis handlers (personal safety and business documents).
package handlers

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"guardian/internal/modules/analysis"
)

const maxUploadBytes = 10 << 20

// AnalysisService is the slice of analysis.Service the handlers need.
type AnalysisService interface {
	AnalyzeRequest(ctx context.Context, in analysis.RawInput) (*analysis.SynthesizedReport, error)
	AnalyzeDocument(ctx context.Context, in analysis.RawInput) (*analysis.DocumentAnalysis, error)
}

type AnalysisHandler struct {
	svc AnalysisService
}

func NewAnalysisHandler(svc AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

type analyzeReq struct {
	Text          string `json:"text"`
	Context       string `json:"context"`
	ImageBase64   string `json:"image_base64"`
	ImageMIMEType string `json:"image_mime_type"`
}

// Analyze handles POST /api/analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	in, ok := bindRawInput(c)
	if !ok {
		return
	}
	report, err := h.svc.AnalyzeRequest(c.Request.Context(), in)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, report)
}

// AnalyzeDocument handles POST /api/documents/analyze.
func (h *AnalysisHandler) AnalyzeDocument(c *gin.Context) {
	in, ok := bindRawInput(c)
	if !ok {
		return
	}
	res, err := h.svc.AnalyzeDocument(c.Request.Context(), in)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// bindRawInput accepts either a JSON body with a base64 image or a multipart
// form with an "image" file part.
func bindRawInput(c *gin.Context) (analysis.RawInput, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return bindMultipart(c)
	}

	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c, "invalid json")
		return analysis.RawInput{}, false
	}
	in := analysis.RawInput{
		Text:          strings.TrimSpace(req.Text),
		Context:       strings.TrimSpace(req.Context),
		ImageMIMEType: req.ImageMIMEType,
	}
	if req.ImageBase64 != "" {
		data, err := decodeBase64(req.ImageBase64)
		if err != nil {
			writeInvalidInput(c, "image_base64 is not valid base64")
			return analysis.RawInput{}, false
		}
		in.ImageBytes = data
	}
	return in, true
}

func bindMultipart(c *gin.Context) (analysis.RawInput, bool) {
	in := analysis.RawInput{
		Text:    strings.TrimSpace(c.PostForm("text")),
		Context: strings.TrimSpace(c.PostForm("context")),
	}
	fh, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return in, true
	}
	if err != nil {
		writeInvalidInput(c, "invalid multipart form")
		return analysis.RawInput{}, false
	}
	f, err := fh.Open()
	if err != nil {
		writeInvalidInput(c, "cannot read image")
		return analysis.RawInput{}, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeInvalidInput(c, "cannot read image")
		return analysis.RawInput{}, false
	}
	in.ImageBytes = data
	in.ImageMIMEType = fh.Header.Get("Content-Type")
	return in, true
}

// decodeBase64 accepts raw base64 or a data URL.
func decodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); strings.HasPrefix(s, "data:") && i > 0 {
		s = s[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}
