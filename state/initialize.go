package state

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"inkwell/cleantext"
	"inkwell/config"
	"inkwell/entsync"
	"inkwell/model"
	"inkwell/store"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// SyncerConfig converts timeline configuration to syncer settings.
func SyncerConfig(cfg *config.TimelineConfig) (entsync.Config, error) {
	out := entsync.Config{
		BornLabel: cfg.BornLabel,
		DiedLabel: cfg.DiedLabel,
		Templates: make(map[model.RelationshipType]entsync.EventTemplate, len(cfg.RelationshipEvents)),
	}
	var errs error
	for name, t := range cfg.RelationshipEvents {
		typ, err := model.ParseRelationshipType(name)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("timeline relationship events: %w", err))
			continue
		}
		out.Templates[typ] = entsync.EventTemplate{Title: t.TitleTemplate, Description: t.DescriptionTemplate}
	}
	return out, errs
}

// Initialize prepares processing components from loaded configuration. Cfg
// and Log must be set.
func (e *LocalEnv) Initialize() error {
	sc, err := SyncerConfig(&e.Cfg.Timeline)
	if err != nil {
		return err
	}
	if e.Syncer, err = entsync.NewSyncer(sc, e.Log); err != nil {
		return fmt.Errorf("unable to prepare timeline templates: %w", err)
	}
	e.Engine = entsync.NewEngine(e.Syncer, e.Log)
	e.Projector = cleantext.NewProjector(e.Cfg.Document.Reading.FastWPM, e.Cfg.Document.Reading.SlowWPM, e.Log)

	if e.Store, err = store.Open(&e.Cfg.Store, e.Log); err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	return nil
}

// Close releases resources acquired by Initialize.
func (e *LocalEnv) Close() error {
	if e.Store == nil {
		return nil
	}
	return e.Store.Close()
}
