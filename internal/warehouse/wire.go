//go:build wireinject
// +build wireinject

package warehouse

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpDelivery "github.com/renkteks/kartela/internal/warehouse/delivery/http"
	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/internal/warehouse/repository"
	"github.com/renkteks/kartela/internal/warehouse/scan"
	"github.com/renkteks/kartela/internal/warehouse/usecase/command"
	"github.com/renkteks/kartela/internal/warehouse/usecase/query"
	"github.com/renkteks/kartela/kafka"
)

// Repository providers
func ProvideItemRepository(db *gorm.DB) domain.ItemRepository {
	return repository.NewGormItemRepository(db)
}

func ProvideCellRepository(db *gorm.DB) domain.CellRepository {
	return repository.NewTracingCellRepository(repository.NewGormCellRepository(db))
}

func ProvideTransferRepository(db *gorm.DB) domain.TransferRepository {
	return repository.NewGormTransferRepository(db)
}

func ProvideHierarchyRepository(db *gorm.DB) domain.HierarchyRepository {
	return repository.NewGormHierarchyRepository(db)
}

// Event stream providers
func ProvideTransferEvents(publisher *kafka.Publisher) command.TransferEvents {
	return kafka.NewTransferEventStream(publisher)
}

func ProvideEventDeduper(client *redis.Client) scan.EventDeduper {
	return repository.NewRedisEventDeduper(client)
}

// Command Handlers Providers
func ProvideTransferItemHandler(
	items domain.ItemRepository,
	cells domain.CellRepository,
	transfers domain.TransferRepository,
	events command.TransferEvents,
) *command.TransferItemHandler {
	return command.NewTransferItemHandler(items, cells, transfers, events)
}

func ProvideUpdateCellRangeHandler(cells domain.CellRepository) *command.UpdateCellRangeHandler {
	return command.NewUpdateCellRangeHandler(cells)
}

// Query Handlers Providers
func ProvideResolveItemHandler(items domain.ItemRepository) *query.ResolveItemHandler {
	return query.NewResolveItemHandler(items)
}

func ProvideLookupCellHandler(cells domain.CellRepository) *query.LookupCellHandler {
	return query.NewLookupCellHandler(cells)
}

func ProvideListTransfersHandler(transfers domain.TransferRepository) *query.ListTransfersHandler {
	return query.NewListTransfersHandler(transfers)
}

func ProvideOccupancyReportHandler(hierarchy domain.HierarchyRepository) *query.OccupancyReportHandler {
	return query.NewOccupancyReportHandler(hierarchy)
}

// Scan session providers
func ProvideClock() scan.Clock {
	return scan.SystemClock()
}

func ProvideRegistry(
	resolveItem *query.ResolveItemHandler,
	lookupCell *query.LookupCellHandler,
	transfer *command.TransferItemHandler,
	clock scan.Clock,
	dedupe scan.EventDeduper,
) *scan.Registry {
	return scan.NewRegistry(resolveItem, lookupCell, transfer, clock, dedupe)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideItemRepository,
	ProvideCellRepository,
	ProvideTransferRepository,
	ProvideHierarchyRepository,
)

var EventSet = wire.NewSet(
	ProvideTransferEvents,
	ProvideEventDeduper,
)

var CommandHandlerSet = wire.NewSet(
	ProvideTransferItemHandler,
	ProvideUpdateCellRangeHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideResolveItemHandler,
	ProvideLookupCellHandler,
	ProvideListTransfersHandler,
	ProvideOccupancyReportHandler,
)

var ScanSet = wire.NewSet(
	ProvideClock,
	ProvideRegistry,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	EventSet,
	CommandHandlerSet,
	QueryHandlerSet,
	ScanSet,
)

// InitializeHandler initializes the warehouse HTTP handler with all dependencies
func InitializeHandler(db *gorm.DB, redisClient *redis.Client, publisher *kafka.Publisher) (*httpDelivery.WarehouseHandler, error) {
	wire.Build(
		AllHandlersSet,
		httpDelivery.NewWarehouseHandler,
	)
	return nil, nil
}
