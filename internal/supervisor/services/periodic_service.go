// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package services

import (
	"context"
	"time"

	"github.com/tomtom215/foodgram/internal/logging"
)

// PeriodicService runs task every interval until canceled. Task errors are
// logged and do not restart the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewPeriodicService creates a named periodic task. A non-positive interval
// means one minute.
func NewPeriodicService(name string, interval time.Duration, task func(ctx context.Context) error) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := logging.WithComponent(s.name)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.task(ctx); err != nil {
				log.Warn().Err(err).Msg("Periodic task failed")
				continue
			}
			log.Debug().Dur("duration", time.Since(start)).Msg("Periodic task finished")
		}
	}
}

func (s *PeriodicService) String() string {
	return s.name
}
