// Package certwatcher serves a TLS key pair and reloads it when the files change.
package certwatcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher holds the current key pair.
type Watcher struct {
	certFile, keyFile string
	l                 *zap.Logger

	mu   sync.RWMutex
	cert *tls.Certificate
}

// New loads the key pair and returns a watcher for it.
func New(l *zap.Logger, certFile, keyFile string) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		l:        l.With(zap.String("component", "certwatcher")),
	}
	if err := w.load(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Watcher) load() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair: %w", err)
	}
	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()
	return nil
}

// GetCertificate returns a copy of the current certificate.
// It matches tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c := *w.cert
	return &c, nil
}

// Start watches both files until ctx is cancelled. A failed reload keeps
// the previous key pair.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, f := range []string{w.certFile, w.keyFile} {
		if err := fw.Add(f); err != nil {
			_ = fw.Close()
			return fmt.Errorf("failed to watch %s: %w", f, err)
		}
	}
	w.l.Info("watching certificate files",
		zap.String("cert_file", w.certFile),
		zap.String("key_file", w.keyFile),
	)

	go func() {
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := w.load(); err != nil {
					w.l.Error("failed to reload certificate", zap.Error(err))
					continue
				}
				w.l.Info("certificate reloaded", zap.String("file", ev.Name))
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.l.Warn("certificate watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
