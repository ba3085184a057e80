package rules

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/crm"
)

// Watcher reloads the CRM rules file into a RuleSet whenever it changes.
// A file that fails to parse is logged and the active rules stay in place.
type Watcher struct {
	path  string
	rules *crm.RuleSet
	log   zerolog.Logger
}

// New creates a watcher for path
func New(path string, rules *crm.RuleSet, log zerolog.Logger) *Watcher {
	return &Watcher{
		path:  filepath.Clean(path),
		rules: rules,
		log:   log.With().Str("component", "rules_watcher").Str("path", path).Logger(),
	}
}

// Reload reads the file once and swaps the rules in on success
func (w *Watcher) Reload() error {
	r, err := crm.LoadRules(w.path)
	if err != nil {
		return err
	}
	w.rules.Store(r)
	w.log.Info().Int("grade_rules", len(r.GradeRules)).Msg("CRM rules loaded")
	return nil
}

// Start watches the file's directory until ctx is done. Editors often
// replace a file by rename, so events are matched on the file name.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != w.path {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := w.Reload(); err != nil {
					w.log.Error().Err(err).Msg("Rejected CRM rules file, keeping active rules")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.log.Error().Err(err).Msg("Rules watcher error")
			}
		}
	}()
	return nil
}
