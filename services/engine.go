// services/engine.go
package services

import (
	"log"

	"gorm.io/gorm"
)

// AuditSink receives fire-and-forget notifications about clinical actions.
// Failures to record are never surfaced to the caller.
type AuditSink interface {
	Record(action, details string)
}

// LogAuditSink writes audit records to the process log.
type LogAuditSink struct{}

func (LogAuditSink) Record(action, details string) {
	log.Printf("[AUDIT] %s: %s", action, details)
}

// Engine bundles the four workflow components behind one handle. Each
// component holds its own *gorm.DB reference passed in at startup; nothing
// here keeps per-request state.
type Engine struct {
	Scheduler *Scheduler
	Queue     *QueueCoordinator
	Billing   *BillingEngine
	Discounts *DiscountResolver
}

func NewEngine(db *gorm.DB, audit AuditSink) *Engine {
	if audit == nil {
		audit = LogAuditSink{}
	}
	discounts := NewDiscountResolver(db)
	return &Engine{
		Scheduler: NewScheduler(db, audit),
		Queue:     NewQueueCoordinator(db),
		Billing:   NewBillingEngine(db, discounts, audit),
		Discounts: discounts,
	}
}
