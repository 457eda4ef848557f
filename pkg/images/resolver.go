package images

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/voltcrew/voltcrewdesigns/pkg/prometheus"
)

// ErrNotFound is returned when no candidate of an image could be found.
// When some probes failed for other reasons (timeouts, server errors),
// the returned error wraps ErrNotFound together with those probe errors:
// the image may exist but could not be checked.
var ErrNotFound = errors.New("image not found")

// Prober checks whether an image exists at a path relative to the photos root
type Prober interface {
	Probe(ctx context.Context, relPath string) (bool, error)
}

type Resolver struct {
	prober  Prober
	prefix  string // url prefix of resolved paths, "/photos" or a CDN base url
	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func NewResolver(prober Prober, prefix string, monitor *prometheus.Monitor, logger *logrus.Logger) *Resolver {
	return &Resolver{
		prober:  prober,
		prefix:  prefix,
		monitor: monitor,
		logger:  logger,
	}
}

// Candidates lists the filenames probed for name, in order.
// A name with an extension is tried verbatim, then with the extension
// swapped to .png and to .jpg. A bare name gets .png and .jpg appended.
func Candidates(name string) []string {
	ext := path.Ext(name)
	if ext == "" {
		return []string{name + ".png", name + ".jpg"}
	}

	base := strings.TrimSuffix(name, ext)
	candidates := []string{name}
	for _, swap := range []string{".png", ".jpg"} {
		if c := base + swap; c != name {
			candidates = append(candidates, c)
		}
	}

	return candidates
}

// Resolve returns the path of the first existing candidate of name
// in the category/productLine directory, e.g. /photos/tee/goes20/tee_black_1.png
func (r *Resolver) Resolve(ctx context.Context, category, productLine, name string) (string, error) {
	if name == "" {
		return "", ErrNotFound
	}

	var probeErrs []error
	for _, candidate := range Candidates(name) {
		rel := path.Join(category, productLine, candidate)

		found, err := r.prober.Probe(ctx, rel)
		if err != nil {
			r.monitor.ImageProbes.WithLabelValues("error").Inc()
			r.logger.WithFields(logrus.Fields{
				"path":  rel,
				"error": err.Error(),
			}).Warn("Image probe failed")
			probeErrs = append(probeErrs, err)

			if ctx.Err() != nil {
				break
			}
			continue
		}

		if found {
			r.monitor.ImageProbes.WithLabelValues("found").Inc()
			return strings.TrimSuffix(r.prefix, "/") + "/" + rel, nil
		}
		r.monitor.ImageProbes.WithLabelValues("missing").Inc()
	}

	if len(probeErrs) > 0 {
		return "", fmt.Errorf("%w: %w", ErrNotFound, errors.Join(probeErrs...))
	}

	return "", ErrNotFound
}

// ResolveAll resolves all names concurrently and waits for every probe
// before returning. Names that cannot be resolved are left out,
// the order of the resolved ones is kept.
func (r *Resolver) ResolveAll(ctx context.Context, category, productLine string, names []string) []string {
	resolved := make([]string, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			p, err := r.Resolve(gctx, category, productLine, name)
			if err == nil {
				resolved[i] = p
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(resolved))
	for _, p := range resolved {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
