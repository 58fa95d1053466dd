package provider

import (
	"github.com/MirrorChyan/fetch-paper/internal/logic"
	"github.com/google/wire"
)

var LogicSet = wire.NewSet(
	logic.NewFetchLogic,
	logic.NewSummaryLogic,
)
