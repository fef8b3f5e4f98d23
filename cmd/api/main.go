package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"acredge.in/internal/assets"
	"acredge.in/internal/auth"
	"acredge.in/internal/catalog"
	"acredge.in/internal/config"
	"acredge.in/internal/docstore"
	"acredge.in/internal/httpapi"
	"acredge.in/internal/obs"
	"acredge.in/internal/places"
)

var version = "0.3.1"

func main() {
	// Local development keeps its settings in .env; absence is fine.
	_ = godotenv.Load()

	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	var appOpts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		appOpts = append(appOpts, option.WithCredentialsFile(creds))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, appOpts...)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("firestore: %v", err)
	}
	defer fsClient.Close()

	storageClient, err := app.Storage(ctx)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	bucket, err := storageClient.Bucket(cfg.StorageBucket)
	if err != nil {
		log.Fatalf("storage bucket: %v", err)
	}

	docs := docstore.NewFirestore(fsClient)
	gateway := assets.NewGCSBucket(bucket, cfg.StorageBucket)

	authSvc := auth.NewService(docs, cfg.AuthSecret, cfg.AdminDomain,
		auth.WithTokenTTL(cfg.TokenTTL),
		auth.WithOTPTTL(cfg.OTPTTL),
		auth.WithOrigins(cfg.AdminOrigin, cfg.UserOrigin),
	)
	catalogSvc := catalog.NewService(docs, gateway)

	apiOpts := []httpapi.Option{
		httpapi.WithVersion(version),
		httpapi.WithAllowedOrigins(cfg.AdminOrigin, cfg.UserOrigin),
		httpapi.WithUserOrigin(cfg.UserOrigin),
		httpapi.WithReadyProbe(httpapi.ReadyProbe{
			Check: func(ctx context.Context) error {
				_, err := docs.Count(ctx, docstore.Amenities)
				return err
			},
		}),
	}
	if cfg.PlacesAPIKey != "" {
		apiOpts = append(apiOpts, httpapi.WithPlaces(places.NewClient(cfg.PlacesAPIKey)))
	}
	api := httpapi.New(catalogSvc, authSvc, apiOpts...)

	handler := httpapi.RateLimit(
		httpapi.MaxBodyBytes(api.Handler(), cfg.MaxBodyBytes),
		cfg.RateBurst, cfg.RatePerSecond,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: cfg.RequestTimeout,
		WriteTimeout:      2 * cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting acredge-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Println("Stopped")
}
