package cmdutil

import (
	"context"
	"errors"
	"fmt"

	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/manifest"
	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/pkg/hierarchy"
)

// LoadDomains loads and builds the manifests at paths, showing a spinner on a
// terminal. Validation failures are printed here and returned as a printed
// ExitError.
func LoadDomains(ctx context.Context, paths []string) ([]*hierarchy.Domain, error) {
	if len(paths) == 0 {
		return nil, &oerrors.DetailError{
			Type:    "not found",
			Message: "no domain manifests given",
			Hint:    "Pass --domain, set MODKIT_DOMAINS, or list domains in the config file",
			Cause:   oerrors.ErrNotFound,
		}
	}

	var domains []*hierarchy.Domain
	err := output.RunWithSpinner(ctx, fmt.Sprintf("Loading %d domain manifest(s)", len(paths)), func(context.Context) error {
		manifests := make([]*manifest.Manifest, 0, len(paths))
		for _, p := range paths {
			m, err := manifest.Load(p)
			if err != nil {
				return err
			}
			output.Debug("manifest loaded", "path", p, "domain", m.Domain, "types", len(m.Types))
			manifests = append(manifests, m)
		}

		var err error
		domains, err = manifest.Build(manifests...)
		return err
	})
	if err != nil {
		var verr *manifest.ValidationError
		if errors.As(err, &verr) {
			PrintValidationError("domain manifests are invalid", err)
			return nil, &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err, Printed: true}
		}
		return nil, err
	}
	return domains, nil
}

// NewCache returns a cache initialized over domains, logging and tracing
// through the CLI's logger and the global tracer provider.
func NewCache(ctx context.Context, domains []*hierarchy.Domain) *hierarchy.Cache {
	c := hierarchy.NewCache(hierarchy.WithLogger(output.Logger()))
	c.InitializeContext(ctx, domains...)
	return c
}

// ResolveType resolves ref, mapping failures to a not-found error.
func ResolveType(idx *manifest.TypeIndex, ref string) (*hierarchy.Type, error) {
	t, err := idx.Resolve(ref)
	if err != nil {
		return nil, oerrors.NewNotFoundError(err.Error(), ref, "Use domain.Type to name a type; 'modkit types tree' lists them")
	}
	return t, nil
}
