package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cotizador/go_backend/internal/app/config"
	apphttp "cotizador/go_backend/internal/app/http"
	"cotizador/go_backend/internal/app/http/handlers"
	"cotizador/go_backend/internal/domain/catalog"
	pdfgen "cotizador/go_backend/internal/domain/quote/pdf/gofpdf"
	"cotizador/go_backend/internal/infra/db/postgres"
	"cotizador/go_backend/internal/infra/db/sqlite"
	"cotizador/go_backend/internal/platform/logger"
)

func Run() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(fmt.Sprintf("logger: %v", err))
	}
	defer log.Sync()

	ctx := context.Background()
	persist, closer, err := openPersistence(ctx, cfg)
	if err != nil {
		log.Fatal("catalog persistence", "driver", cfg.CatalogDriver, "error", err)
	}
	defer closer.Close()

	defaults, err := catalog.Defaults()
	if err != nil {
		log.Fatal("catalog defaults", "error", err)
	}
	store, err := catalog.Open(ctx, persist, defaults)
	if err != nil {
		log.Fatal("catalog open", "error", err)
	}

	layout := pdfgen.DefaultLayout()
	layout.RowHeight = cfg.PDFRowHeight
	if err := layout.Validate(); err != nil {
		log.Fatal("pdf layout", "error", err)
	}
	gen := pdfgen.New(cfg.PDFFontDir, layout, log.With("component", "pdf"))

	h := handlers.New(store, gen, gen.RowsPerPage(), log)
	router := apphttp.NewRouter(cfg, log, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("listening", "addr", cfg.HTTPAddr, "catalog_driver", cfg.CatalogDriver, "products", len(store.List()), "rows_per_page", gen.RowsPerPage())
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("http server stopped", "error", err)
	}
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func openPersistence(ctx context.Context, cfg config.Config) (catalog.Persistence, io.Closer, error) {
	switch cfg.CatalogDriver {
	case "postgres":
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		c, err := postgres.NewCatalog(ctx, db, cfg.CatalogKey)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return c, closeFunc(func() error { db.Close(); return nil }), nil
	case "sqlite":
		c, err := sqlite.Open(cfg.SQLitePath, cfg.CatalogKey)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	default:
		return catalog.NewMemory(), closeFunc(func() error { return nil }), nil
	}
}
