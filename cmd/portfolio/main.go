package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	githubapi "github.com/goliatone/go-portfolio/adapters/github"
	portfoliohttp "github.com/goliatone/go-portfolio/adapters/http"
	exportpdf "github.com/goliatone/go-portfolio/adapters/pdf"
	"github.com/goliatone/go-portfolio/adapters/render"
	"github.com/goliatone/go-portfolio/portfolio"
)

func main() {
	user := flag.String("user", "", "GitHub username or profile URL; export once and exit")
	out := flag.String("out", "", "output path for -user mode (default <handle>-portfolio.pdf)")
	flag.Parse()

	cfg := Load()

	zlog, err := newLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	source := githubapi.New(githubapi.Config{Token: cfg.GitHub.Token})
	service := portfolio.NewService(portfolio.ServiceConfig{
		Source: source,
		Logger: logger,
	})
	renderer := render.New()

	engine := &exportpdf.ChromiumEngine{
		BrowserPath: cfg.PDF.ChromiumPath,
		Headless:    cfg.PDF.Headless,
		Timeout:     cfg.PDF.Timeout,
		Args:        cfg.PDF.Args,
	}
	defer engine.Close()

	exporter := &exportpdf.Exporter{
		Engine: engine,
		Stager: &exportpdf.Stager{
			ContainerID: render.ContainerID,
			Images:      &exportpdf.HTTPImageFetcher{},
			Logger:      logger,
		},
		Logger: logger,
	}

	if *user != "" {
		if err := runOnce(service, renderer, exporter, *user, *out); err != nil {
			logger.Errorf("export failed: %v", err)
			os.Exit(1)
		}
		return
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-portfolio",
		DisableStartupMessage: true,
	})
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	portfoliohttp.NewHandler(portfoliohttp.Config{
		Service:  service,
		Renderer: renderer,
		Exporter: exporter,
		Logger:   logger,
	}).RegisterRoutes(app)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Infof("listening on http://%s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
}

// runOnce exports a single portfolio to disk.
func runOnce(service *portfolio.Service, renderer *render.Renderer, exporter *exportpdf.Exporter, user, out string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := service.Aggregate(ctx, user)
	if err != nil {
		return err
	}

	document, err := renderer.Document(res)
	if err != nil {
		return err
	}

	pdf, err := exporter.Export(ctx, document)
	if err != nil {
		return err
	}
	if pdf == nil {
		return fmt.Errorf("document produced no capture")
	}

	if out == "" {
		out = res.Profile.Login + "-portfolio.pdf"
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(pdf))
	return nil
}
