package dataset

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/agentstation/apirunner/pkg/dotpath"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/profile"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// Build executes list, locates the item array at arrayPath in its body and
// assembles the dataset.
//
// A list response with ok=false returns an *errors.APIError and no dataset.
// A value at arrayPath that is not an array yields zero rows. Without a
// detail profile the rows are the list items themselves and no further calls
// are made.
func Build(ctx context.Context, exec proxy.Executor, list profile.Profile, arrayPath string, opts ...Option) (*BuiltDataset, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ctx = logging.WithOperation(ctx, "dataset.build")
	ctx = logging.WithProfile(ctx, list.Name)
	logger := logging.FromContext(ctx)

	resp := exec.Execute(ctx, profile.ToRequest(list))
	if !resp.OK {
		err := errors.NewAPIError("list", resp.Status, resp.StatusText)
		err.Endpoint = profile.BuildURL(list.BaseURL, list.Path, nil)
		if resp.Status == 0 {
			err.Message = resp.Text()
		}
		logger.Warn().Err(err).Msg("List call failed")
		return nil, err
	}

	items := dotpath.Array(resp.Data, arrayPath)
	if len(items) > o.MaxItems {
		items = items[:o.MaxItems]
	}

	var rows []Row
	if o.Detail == nil {
		rows = make([]Row, len(items))
		copy(rows, items)
	} else {
		rows = fetchDetails(ctx, exec, items, o)
	}

	ds := &BuiltDataset{
		SourceName: o.SourceName,
		Rows:       rows,
		BuiltAt:    time.Now().UTC(),
		Count:      len(rows),
	}
	logger.Debug().
		Int("rows", ds.Count).
		Int("errors", ds.Errors()).
		Bool("detail", o.Detail != nil).
		Msg("Dataset built")
	return ds, nil
}

// fetchDetails runs one detail call per item with at most o.Concurrency in
// flight. Each result is written to its item's index.
func fetchDetails(ctx context.Context, exec proxy.Executor, items []any, o *Options) []Row {
	rows := make([]Row, len(items))
	limiter := rate.NewLimiter(o.RateLimit, 1)

	var g errgroup.Group
	g.SetLimit(o.Concurrency)
	for i, item := range items {
		req := profile.ToRequest(DetailProfile(*o.Detail, item, o.IDPath, o.IDVarName))
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				rows[i] = ErrorRow(proxy.Failure(err.Error()))
				return nil
			}
			rows[i] = detailRow(exec.Execute(ctx, req))
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

// DetailProfile returns a copy of detail with the item's id substituted into
// the path. The replacement is a single literal pass: an id that itself
// contains the token is not expanded again. Without an id or a variable
// name the path is left as is.
func DetailProfile(detail profile.Profile, item any, idPath, idVarName string) profile.Profile {
	p := detail.Clone()
	if idVarName == "" {
		return p
	}
	id, ok := dotpath.String(item, idPath)
	if !ok {
		return p
	}
	p.Path = strings.ReplaceAll(p.Path, "{"+idVarName+"}", id)
	return p
}

func detailRow(resp proxy.Response) Row {
	if !resp.OK {
		return ErrorRow(resp)
	}
	if resp.HasData {
		return resp.Data
	}
	return resp.Text()
}
