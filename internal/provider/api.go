package provider

import (
	"github.com/MirrorChyan/fetch-paper/internal/api"
	"github.com/MirrorChyan/fetch-paper/internal/fetcher"
	"github.com/MirrorChyan/fetch-paper/internal/metrics"
	"github.com/MirrorChyan/fetch-paper/internal/verifier"
	"github.com/google/wire"
)

var APISet = wire.NewSet(
	metrics.New,
	api.NewEndpoint,
	api.NewHTTPClient,
	api.NewRequester,
	api.NewClient,
	fetcher.New,
	verifier.New,
)
