package main

import (
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	abouthandler "github.com/zenGate-Global/wedding-marketplace/domains/about/be/handler"
	aboutservice "github.com/zenGate-Global/wedding-marketplace/domains/about/be/service"
	accountshandler "github.com/zenGate-Global/wedding-marketplace/domains/accounts/be/handler"
	accountsservice "github.com/zenGate-Global/wedding-marketplace/domains/accounts/be/service"
	enquirieshandler "github.com/zenGate-Global/wedding-marketplace/domains/enquiries/be/handler"
	enquiriesservice "github.com/zenGate-Global/wedding-marketplace/domains/enquiries/be/service"
	heroextensionhandler "github.com/zenGate-Global/wedding-marketplace/domains/heroextension/be/handler"
	heroextensionservice "github.com/zenGate-Global/wedding-marketplace/domains/heroextension/be/service"
	heroslideshandler "github.com/zenGate-Global/wedding-marketplace/domains/heroslides/be/handler"
	heroslidesservice "github.com/zenGate-Global/wedding-marketplace/domains/heroslides/be/service"
	processstepshandler "github.com/zenGate-Global/wedding-marketplace/domains/processsteps/be/handler"
	processstepsservice "github.com/zenGate-Global/wedding-marketplace/domains/processsteps/be/service"
	testimonialshandler "github.com/zenGate-Global/wedding-marketplace/domains/testimonials/be/handler"
	testimonialsservice "github.com/zenGate-Global/wedding-marketplace/domains/testimonials/be/service"
	weddingshandler "github.com/zenGate-Global/wedding-marketplace/domains/weddings/be/handler"
	weddingsservice "github.com/zenGate-Global/wedding-marketplace/domains/weddings/be/service"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/cache"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/events"
	platformlogging "github.com/zenGate-Global/wedding-marketplace/platform/go/logging"
	platformmiddleware "github.com/zenGate-Global/wedding-marketplace/platform/go/middleware"
)

type serverDeps struct {
	Store          docstore.Store
	Logger         *zap.Logger
	Registry       *prometheus.Registry
	Auth           func(http.Handler) http.Handler
	Spec           *openapi3.T
	Publisher      events.Publisher
	Entitlements   *cache.TTL[bool]
	EnquiryLimiter *platformmiddleware.RateLimiter
	CORSOrigins    []string
	RequestTimeout time.Duration
	ProjectID      string
}

type server struct {
	router     http.Handler
	refreshers []content.Refresher
}

// newServer constructs every repository once and mounts the routes on a single router. A non-empty
// ProjectID enables Cloud Trace correlation in request logs.
func newServer(d serverDeps) *server {
	opts := content.Options{
		Logger:  d.Logger,
		Metrics: content.NewMetrics(d.Registry),
	}

	heroSlides := heroslidesservice.New(d.Store, opts)
	testimonials := testimonialsservice.New(d.Store, opts)
	about := aboutservice.New(d.Store, opts)
	weddings := weddingsservice.New(d.Store, opts)
	processSteps := processstepsservice.New(d.Store, opts)
	heroExtension := heroextensionservice.New(d.Store, opts)

	enquiryOpts := enquiriesservice.Options{
		Options:      opts,
		Publisher:    d.Publisher,
		Entitlements: d.Entitlements,
	}
	hotelEnquiries := enquiriesservice.NewHotel(d.Store, enquiryOpts)
	vendorEnquiries := enquiriesservice.NewVendor(d.Store, enquiryOpts)
	accounts := accountsservice.New(d.Store, opts)

	var createLimit []func(http.Handler) http.Handler
	if d.EnquiryLimiter != nil {
		createLimit = append(createLimit, d.EnquiryLimiter.Middleware)
	}
	enquiries := enquirieshandler.New(hotelEnquiries, vendorEnquiries, d.Logger, createLimit...)

	rootRouter := chi.NewRouter()
	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		platformmiddleware.CORS(d.CORSOrigins),
		platformlogging.RequestLogger(d.Logger, d.ProjectID),
		platformmiddleware.NewHTTPMetrics(d.Registry).Instrument,
	)
	if d.RequestTimeout > 0 {
		rootRouter.Use(chimw.Timeout(d.RequestTimeout))
	}

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	// ---- Swagger UI + OpenAPI JSON (public) ----
	registerDocsRoutes(rootRouter, "content", d.Spec, d.Logger)

	apiRouter := chi.NewRouter()
	apiRouter.Use(d.Auth)
	apiRouter.Use(platformmiddleware.RequestTrace)
	apiRouter.Use(platformmiddleware.ContractValidator(d.Spec))

	apiRouter.Route("/hero-slides", heroslideshandler.New(heroSlides, d.Logger).Routes)
	apiRouter.Route("/testimonials", testimonialshandler.New(testimonials, d.Logger).Routes)
	apiRouter.Route("/about", abouthandler.New(about, d.Logger).Routes)
	apiRouter.Route("/weddings", weddingshandler.New(weddings, d.Logger).Routes)
	apiRouter.Route("/process-steps", processstepshandler.New(processSteps, d.Logger).Routes)
	apiRouter.Route("/hero-extension", heroextensionhandler.New(heroExtension, d.Logger).Routes)
	apiRouter.Route("/hotel-enquiries", enquiries.HotelRoutes)
	apiRouter.Route("/vendor-enquiries", enquiries.VendorRoutes)
	enquiries.OwnerRoutes(apiRouter)
	apiRouter.Route("/accounts", accountshandler.New(accounts, d.Logger).Routes)

	rootRouter.Mount("/api/v1", apiRouter)

	return &server{
		router: rootRouter,
		refreshers: []content.Refresher{
			heroSlides, testimonials, about, weddings, processSteps, heroExtension,
			hotelEnquiries, vendorEnquiries, accounts,
		},
	}
}
