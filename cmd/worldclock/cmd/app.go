package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"worldclock/internal/favorites"
	"worldclock/internal/service"
	"worldclock/internal/session"
	"worldclock/internal/storage"
	"worldclock/pkg/geo"
	"worldclock/pkg/imagery"
	"worldclock/pkg/kafkaclient"
	"worldclock/pkg/location"
	"worldclock/pkg/restyutil"
	"worldclock/pkg/timezone"
	"worldclock/pkg/wikipedia"
)

// app holds the wired dependencies of one command invocation.
type app struct {
	store     storage.Store
	repo      *favorites.Repository
	resolver  *location.Resolver
	timezone  *timezone.Resolver
	images    *imagery.Selector
	publisher service.EventPublisher
	producer  *kafkaclient.KafkaProducer
}

func httpOptions(baseURL string) restyutil.Options {
	return restyutil.Options{
		BaseURL:   baseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Logger:    logger,
	}
}

func newResolver() (*location.Resolver, error) {
	domestic, err := geo.LoadDomestic(cfg.VocabFile)
	if err != nil {
		return nil, fmt.Errorf("load domestic vocabulary: %w", err)
	}
	if cfg.DomesticCountry != "" {
		v := domestic.DomesticVocabulary
		v.Country = cfg.DomesticCountry
		domestic = geo.NewDomestic(v)
	}

	opts := httpOptions(cfg.NominatimURL)
	opts.RequestsPerSecond = cfg.NominatimRPS
	client := location.NewClient(location.ClientOptions{Options: opts})
	return location.NewResolver(client, domestic, logger), nil
}

func openRepository(ctx context.Context) (storage.Store, *favorites.Repository, error) {
	store, err := storage.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return store, favorites.NewRepository(store, logger), nil
}

func newApp(ctx context.Context) (*app, error) {
	a := &app{}

	var err error
	if a.resolver, err = newResolver(); err != nil {
		return nil, err
	}

	a.timezone = timezone.NewResolver(timezone.Options{
		Options:         httpOptions(cfg.OpenMeteoURL),
		OfflineFallback: cfg.TZOfflineFallback,
	})

	words, err := imagery.LoadWords(cfg.VocabFile)
	if err != nil {
		return nil, fmt.Errorf("load imagery vocabulary: %w", err)
	}
	wiki := wikipedia.NewClient(wikipedia.ClientOptions{
		Options:  httpOptions(""),
		Endpoint: cfg.WikipediaURL,
	})
	a.images = imagery.NewSelector(wikipedia.NewImageService(wiki), imagery.Options{
		Languages: cfg.WikiLangs,
		PhotoURL:  cfg.PhotoURL,
		CacheSize: cfg.ImageCacheSize,
		Words:     words,
		Logger:    logger,
	})

	if a.store, a.repo, err = openRepository(ctx); err != nil {
		return nil, err
	}

	a.publisher = service.LogPublisher{Logger: logger}
	if cfg.Kafka.Enabled() {
		a.producer, err = kafkaclient.NewKafkaProducer(cfg.Kafka.Broker, cfg.Kafka.Topic, logger)
		if err != nil {
			_ = a.store.Close()
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		a.publisher = service.NewStreamPublisher(a.producer)
	}
	return a, nil
}

// session builds a Session rendering into view.
func (a *app) session(view session.View) (*session.Session, error) {
	local := time.Local
	if cfg.LocalTZ != "" {
		loc, err := time.LoadLocation(cfg.LocalTZ)
		if err != nil {
			return nil, fmt.Errorf("LOCAL_TZ: %w", err)
		}
		local = loc
	}
	return session.New(session.Deps{
		Resolver:  a.resolver,
		Timezone:  a.timezone,
		Images:    a.images,
		Favorites: a.repo,
		Publisher: a.publisher,
		View:      view,
	}, session.Options{
		Debounce:     cfg.Debounce,
		DefaultQuery: cfg.DefaultQuery,
		Local:        local,
		Logger:       logger,
	}), nil
}

func (a *app) Close() error {
	var errs []error
	if a.producer != nil {
		errs = append(errs, a.producer.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
