package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradecore/internal/core"
)

// tradeRecordModel is the persisted row for one TradeRecord. Cost, plan
// price and the bound stock's metadata are flattened into columns; nothing
// here is queried by the Trading System itself, only by external tooling
// inspecting a finished run.
type tradeRecordModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	RunID         string         `gorm:"column:run_id;index"`
	Datetime      int64          `gorm:"column:datetime;index"`
	Stock         string         `gorm:"column:stock;index"`
	Business      int            `gorm:"column:business"`
	Part          int            `gorm:"column:part"`
	Price         float64        `gorm:"column:price"`
	Number        float64        `gorm:"column:number"`
	Cost          datatypes.JSON `gorm:"column:cost"`
	PlanPrice     float64        `gorm:"column:plan_price"`
	Stoploss      float64        `gorm:"column:stoploss"`
	GoalPrice     float64        `gorm:"column:goal_price"`
	CashAfter     float64        `gorm:"column:cash_after"`
	PositionAfter float64        `gorm:"column:position_after"`
}

func (tradeRecordModel) TableName() string { return "trade_records" }

// Ledger persists a run's trade list to SQLite via gorm, independent of
// the in-memory bookkeeping SimTradeManager does during a run. A run's
// TradeManager.TradeList() is appended wholesale once the run completes.
type Ledger struct {
	db *gorm.DB
}

// OpenLedger opens (creating if absent) a gorm-backed SQLite ledger at
// path and ensures its schema exists.
func OpenLedger(path string) (*Ledger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("store: ledger path cannot be empty")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&tradeRecordModel{}); err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AppendRun persists every non-rejected trade in trades under runID.
func (l *Ledger) AppendRun(ctx context.Context, runID string, trades []core.TradeRecord) error {
	if l == nil || l.db == nil {
		return fmt.Errorf("store: ledger not initialised")
	}
	models := make([]tradeRecordModel, 0, len(trades))
	for _, tr := range trades {
		if tr.IsNone() {
			continue
		}
		costJSON, _ := json.Marshal(tr.Cost)
		models = append(models, tradeRecordModel{
			RunID:         runID,
			Datetime:      tr.Datetime.Time().UnixMicro(),
			Stock:         tr.Stock.Identity(),
			Business:      int(tr.Business),
			Part:          int(tr.Part),
			Price:         tr.RealPrice,
			Number:        tr.Number,
			Cost:          datatypes.JSON(costJSON),
			PlanPrice:     tr.PlanPrice,
			Stoploss:      tr.Stoploss,
			GoalPrice:     tr.GoalPrice,
			CashAfter:     tr.CashAfter,
			PositionAfter: tr.PositionAfter,
		})
	}
	if len(models) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Create(&models).Error
}

// ListRun returns every trade recorded under runID, ordered by datetime.
func (l *Ledger) ListRun(ctx context.Context, runID string) ([]core.TradeRecord, error) {
	if l == nil || l.db == nil {
		return nil, fmt.Errorf("store: ledger not initialised")
	}
	var models []tradeRecordModel
	if err := l.db.WithContext(ctx).Where("run_id = ?", runID).Order("datetime ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]core.TradeRecord, 0, len(models))
	for _, m := range models {
		var cost core.CostRecord
		_ = json.Unmarshal(m.Cost, &cost)
		out = append(out, core.TradeRecord{
			Datetime:      core.NewDatetime(time.UnixMicro(m.Datetime).UTC()),
			Business:      core.Business(m.Business),
			Part:          core.Part(m.Part),
			RealPrice:     m.Price,
			Number:        m.Number,
			Cost:          cost,
			PlanPrice:     m.PlanPrice,
			Stoploss:      m.Stoploss,
			GoalPrice:     m.GoalPrice,
			CashAfter:     m.CashAfter,
			PositionAfter: m.PositionAfter,
		})
	}
	return out, nil
}
