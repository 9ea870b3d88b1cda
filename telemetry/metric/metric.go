//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package metric provides metrics collection for learnstate. It
// integrates with OpenTelemetry; install a real MeterProvider and call
// Init to export, otherwise the instruments run against the global
// (no-op) provider.
package metric

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the meter under which all learnstate instruments live.
const MeterName = "learnstate"

// Counters for the state-manager components. They are always non-nil
// after package init.
var (
	SessionsInitialized     metric.Int64Counter
	SessionsExpired         metric.Int64Counter
	SessionsRecovered       metric.Int64Counter
	AutosaveTicks           metric.Int64Counter
	AutosavePersistFailures metric.Int64Counter
	AuditEntries            metric.Int64Counter
	NotificationsSent       metric.Int64Counter
	NotificationsFailed     metric.Int64Counter
)

func init() {
	// The global provider is a no-op until the host installs one; the
	// instruments it hands back are still safe to use.
	_ = Init(otel.GetMeterProvider())
}

// Init (re)creates all instruments against the given provider. Call it
// after installing an SDK MeterProvider to start exporting.
func Init(mp metric.MeterProvider) error {
	meter := mp.Meter(MeterName)
	var err error
	if SessionsInitialized, err = meter.Int64Counter(
		"learnstate.sessions.initialized",
		metric.WithDescription("Total number of sessions initialized"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create sessions.initialized counter: %w", err)
	}
	if SessionsExpired, err = meter.Int64Counter(
		"learnstate.sessions.expired",
		metric.WithDescription("Total number of sessions found expired on load"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create sessions.expired counter: %w", err)
	}
	if SessionsRecovered, err = meter.Int64Counter(
		"learnstate.sessions.recovered",
		metric.WithDescription("Total number of recovery envelopes consumed"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create sessions.recovered counter: %w", err)
	}
	if AutosaveTicks, err = meter.Int64Counter(
		"learnstate.autosave.ticks",
		metric.WithDescription("Total number of autosave ticks that captured a checkpoint"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create autosave.ticks counter: %w", err)
	}
	if AutosavePersistFailures, err = meter.Int64Counter(
		"learnstate.autosave.persist_failures",
		metric.WithDescription("Total number of autosave persists that failed after retries"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create autosave.persist_failures counter: %w", err)
	}
	if AuditEntries, err = meter.Int64Counter(
		"learnstate.audit.entries",
		metric.WithDescription("Total number of audit entries logged"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create audit.entries counter: %w", err)
	}
	if NotificationsSent, err = meter.Int64Counter(
		"learnstate.notifications.sent",
		metric.WithDescription("Total number of lifecycle notifications sent"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create notifications.sent counter: %w", err)
	}
	if NotificationsFailed, err = meter.Int64Counter(
		"learnstate.notifications.failed",
		metric.WithDescription("Total number of lifecycle notification sends that failed"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create notifications.failed counter: %w", err)
	}
	return nil
}
