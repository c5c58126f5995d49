package numbering

import (
	"context"
	"fmt"

	"github.com/smallbiznis/gescom/internal/clock"
	"github.com/smallbiznis/gescom/internal/config"
	"github.com/smallbiznis/gescom/internal/numbering/domain"
	"github.com/smallbiznis/gescom/internal/observability"
	"github.com/smallbiznis/gescom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Cfg     config.Config
	Metrics *observability.Metrics `optional:"true"`
}

type Generator struct {
	log        *zap.Logger
	clock      clock.Clock
	maxRetries int
	metrics    *observability.Metrics
}

func New(p Params) domain.Generator {
	maxRetries := p.Cfg.NumberMaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &Generator{
		log:        p.Log.Named("numbering"),
		clock:      p.Clock,
		maxRetries: maxRetries,
		metrics:    p.Metrics,
	}
}

// Format renders a document number from its parts, e.g. CMD-202501-0007.
func Format(prefix, period string, sequence int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, period, sequence)
}

// Next assigns the next number for prefix in the current month. It proposes
// max(sequence)+1, registers the number, and on a duplicate-key collision
// retries with the next sequence. Past the retry bound it falls back to a
// timestamp-derived suffix so the call never spins indefinitely.
func (g *Generator) Next(ctx context.Context, conn *gorm.DB, prefix string) (string, error) {
	period := g.clock.Now().Format("200601")

	sequence, err := g.maxSequence(ctx, conn, prefix, period)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		sequence++
		number := Format(prefix, period, sequence)

		err := g.register(ctx, conn, domain.DocumentNumber{
			Number:    number,
			Prefix:    prefix,
			Period:    period,
			Sequence:  sequence,
			CreatedAt: g.clock.Now(),
		})
		if err == nil {
			return number, nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return "", err
		}

		// Someone else took the number between the scan and the insert.
		// Re-read the high-water mark before the next attempt.
		sequence, err = g.maxSequence(ctx, conn, prefix, period)
		if err != nil {
			return "", err
		}
	}

	return g.fallback(ctx, conn, prefix, period)
}

func (g *Generator) fallback(ctx context.Context, conn *gorm.DB, prefix, period string) (string, error) {
	if g.metrics != nil {
		g.metrics.NumberingFallbacks.Inc()
	}

	number := fmt.Sprintf("%s-%s-%d", prefix, period, g.clock.Now().UnixMilli()%10000)
	err := g.register(ctx, conn, domain.DocumentNumber{
		Number:    number,
		Prefix:    prefix,
		Period:    period,
		CreatedAt: g.clock.Now(),
	})
	if err == nil {
		g.log.Warn("document number assigned via fallback", zap.String("number", number))
		return number, nil
	}
	if !db.IsDuplicateKeyErr(err) {
		return "", err
	}

	// Last resort: nanosecond timestamp, unique for any realistic workload.
	number = fmt.Sprintf("%s-%s-%d", prefix, period, g.clock.Now().UnixNano())
	if err := g.register(ctx, conn, domain.DocumentNumber{
		Number:    number,
		Prefix:    prefix,
		Period:    period,
		CreatedAt: g.clock.Now(),
	}); err != nil {
		return "", err
	}
	g.log.Warn("document number assigned via fallback", zap.String("number", number))
	return number, nil
}

func (g *Generator) maxSequence(ctx context.Context, conn *gorm.DB, prefix, period string) (int, error) {
	var sequence int
	err := conn.WithContext(ctx).
		Model(&domain.DocumentNumber{}).
		Where("prefix = ? AND period = ?", prefix, period).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&sequence).Error
	if err != nil {
		return 0, err
	}
	return sequence, nil
}

func (g *Generator) register(ctx context.Context, conn *gorm.DB, number domain.DocumentNumber) error {
	return conn.WithContext(ctx).Create(&number).Error
}

// Module provides the document number generator.
var Module = fx.Module("numbering",
	fx.Provide(New),
)
