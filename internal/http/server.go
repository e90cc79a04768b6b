// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"guardian/internal/http/handlers"
	"guardian/internal/http/middleware"
	"guardian/internal/logger"
	"guardian/internal/modules/itinerary"
)

// ServerDeps lists what the API needs. Enricher, Photos and History may be
// nil; the matching routes then answer 503.
type ServerDeps struct {
	Analysis handlers.AnalysisService
	Enricher handlers.PayloadEnricher
	Photos   handlers.PhotoFetcher
	History  handlers.HistoryReader
	Logger   *zap.Logger
}

type Server struct {
	analysis  *handlers.AnalysisHandler
	itinerary *handlers.ItineraryHandler
	photos    *handlers.PhotoHandler
	history   *handlers.HistoryHandler
	logger    *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		analysis:  handlers.NewAnalysisHandler(deps.Analysis),
		itinerary: handlers.NewItineraryHandler(deps.Enricher),
		photos:    handlers.NewPhotoHandler(deps.Photos),
		history:   handlers.NewHistoryHandler(deps.History),
		logger:    logger.OrNop(deps.Logger),
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(s.logger), middleware.Metrics(), middleware.Recovery(s.logger))

	api := r.Group("/api")
	api.POST("/analyze", s.analysis.Analyze)
	api.POST("/documents/analyze", s.analysis.AnalyzeDocument)
	api.POST("/itinerary/extract", s.itinerary.Extract)
	api.POST("/itinerary/enrich", s.itinerary.Enrich)
	api.GET("/analyses", s.history.List)
	api.GET("/analyses/:id", s.history.Get)
	r.GET(itinerary.PhotoPath, s.photos.Get)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
