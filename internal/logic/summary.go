package logic

import (
	"context"

	"github.com/MirrorChyan/fetch-paper/internal/api"
	"github.com/MirrorChyan/fetch-paper/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Summary is the metadata shown for one project in the detailed listing.
type Summary struct {
	ID       string
	Name     string
	Groups   int
	Versions int
	Latest   string
}

type SummaryLogic struct {
	logger *zap.Logger
	client *api.Client
	limit  int
}

func NewSummaryLogic(logger *zap.Logger, conf *config.Config, client *api.Client) *SummaryLogic {
	return &SummaryLogic{
		logger: logger,
		client: client,
		limit:  conf.API.Concurrency,
	}
}

// Projects lists the root ids in API order.
func (l *SummaryLogic) Projects(ctx context.Context) ([]string, error) {
	listing, err := l.client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Projects, nil
}

// Summaries fetches every listed project with at most limit requests in
// flight. Results keep the listing order. The first failure cancels the rest.
func (l *SummaryLogic) Summaries(ctx context.Context, limit int) ([]Summary, error) {
	ids, err := l.Projects(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = l.limit
	}

	var (
		summaries = make([]Summary, len(ids))
		g, gctx   = errgroup.WithContext(ctx)
	)
	g.SetLimit(max(limit, 1))

	for i, id := range ids {
		g.Go(func() error {
			project, err := l.client.GetProject(gctx, id)
			if err != nil {
				l.logger.Error("Failed to get project summary",
					zap.String("project", id),
					zap.Error(err),
				)
				return err
			}
			latest, _ := project.Latest()
			summaries[i] = Summary{
				ID:       project.ProjectID,
				Name:     project.ProjectName,
				Groups:   len(project.VersionGroups),
				Versions: len(project.Versions),
				Latest:   latest,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
