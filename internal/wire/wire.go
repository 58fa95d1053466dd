//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/MirrorChyan/fetch-paper/internal/config"
	"github.com/MirrorChyan/fetch-paper/internal/logic"
	"github.com/MirrorChyan/fetch-paper/internal/metrics"
	"github.com/MirrorChyan/fetch-paper/internal/provider"
	"github.com/google/wire"
	"go.uber.org/zap"
)

type LogicSet struct {
	FetchLogic   *logic.FetchLogic
	SummaryLogic *logic.SummaryLogic
	Metrics      *metrics.Metrics
}

func NewLogicSet(
	logger *zap.Logger,
	conf *config.Config,
) *LogicSet {
	panic(wire.Build(
		provider.APISet,
		provider.LogicSet,
		wire.Struct(new(LogicSet), "*"),
	))
}
