package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName        = "task-gateway/api"
	taskCreateSpan    = "tasks.create"
	taskMetricsMsg    = "tasks.request.metrics"
	stepFailedEvent   = "step.failed"
	stepEnqueue       = "enqueue"
	stepPublish       = "publish"
	stageDecode       = "decode"
	stageStore        = "store"
	tasksRoute        = "/api/tasks"
	attrFailedSteps   = "tasks.failed_steps"
	attrTaskID        = "tasks.id"
	attrStoreMillis   = "tasks.store_ms"
	attrEnqueueMillis = "tasks.enqueue_ms"
	attrPublishMillis = "tasks.publish_ms"
	attrTotalMillis   = "tasks.total_ms"
)

type taskRequestMetrics struct {
	logger          *log.Logger
	span            trace.Span
	start           time.Time
	taskID          string
	storeDuration   time.Duration
	enqueueDuration time.Duration
	publishDuration time.Duration
	failedSteps     []string
	errorStage      string
}

func newTaskRequestMetrics(ctx context.Context, logger *log.Logger) (*taskRequestMetrics, context.Context) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, taskCreateSpan)
	return &taskRequestMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
	}, ctx
}

func (m *taskRequestMetrics) SetTaskID(id string) {
	m.taskID = id
}

func (m *taskRequestMetrics) ObserveStore(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.storeDuration = duration
}

// ObserveStep records the duration of a best-effort step and whether it failed.
func (m *taskRequestMetrics) ObserveStep(step string, duration time.Duration, err error) {
	if duration > 0 {
		switch step {
		case stepEnqueue:
			m.enqueueDuration = duration
		case stepPublish:
			m.publishDuration = duration
		}
	}
	if err == nil {
		return
	}
	m.failedSteps = append(m.failedSteps, step)
	m.span.AddEvent(stepFailedEvent, trace.WithAttributes(
		attribute.String("step", step),
		attribute.String("error", err.Error()),
	))
}

func (m *taskRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *taskRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	total := time.Since(m.start)

	attrs := []attribute.KeyValue{
		attribute.String("http.route", tasksRoute),
		attribute.Int("http.status_code", status),
		attribute.Float64(attrTotalMillis, durationToMillis(total)),
		attribute.Float64(attrStoreMillis, durationToMillis(m.storeDuration)),
		attribute.Float64(attrEnqueueMillis, durationToMillis(m.enqueueDuration)),
		attribute.Float64(attrPublishMillis, durationToMillis(m.publishDuration)),
		attribute.StringSlice(attrFailedSteps, m.failedSteps),
	}
	if m.taskID != "" {
		attrs = append(attrs, attribute.String(attrTaskID, m.taskID))
	}
	m.span.SetAttributes(attrs...)
	if m.errorStage != "" {
		m.span.SetStatus(codes.Error, m.errorStage)
	}
	if err != nil {
		m.span.RecordError(err)
	}
	m.span.End()

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"route":    tasksRoute,
		"status":   status,
		"total_ms": durationToMillis(total),
	}
	if m.taskID != "" {
		fields["task_id"] = m.taskID
	}
	if m.storeDuration > 0 {
		fields["store_ms"] = durationToMillis(m.storeDuration)
	}
	if m.enqueueDuration > 0 {
		fields["enqueue_ms"] = durationToMillis(m.enqueueDuration)
	}
	if m.publishDuration > 0 {
		fields["publish_ms"] = durationToMillis(m.publishDuration)
	}
	if len(m.failedSteps) > 0 {
		fields["failed_steps"] = m.failedSteps
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	m.logger.WithFields(fields).Info(taskMetricsMsg)
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
