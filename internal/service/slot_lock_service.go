package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// SlotLockService is the per-doctor serialization point for booking writes.
// A booking request acquires the doctor's lock before validate-and-insert and
// releases it after, so two concurrent requests for the same doctor are
// ordered and the transactional re-check sees the first writer's insert.
//
// Each request path holds at most one lock, so there is no multi-lock
// ordering hazard; if a path ever needs more than one, locks must be taken in
// ascending doctor ID order.
type SlotLockService struct {
	log *logrus.Logger

	// Per-doctor mutex for concurrent safety
	doctorMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewSlotLockService creates a new SlotLockService and starts the background
// goroutine that evicts stale per-doctor mutexes. Call Stop() during
// graceful shutdown.
func NewSlotLockService(log *logrus.Logger) *SlotLockService {
	svc := &SlotLockService{
		log:      log,
		stopChan: make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *SlotLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotLockService stopped")
	}
}

// Lock acquires the mutex for a doctor, blocking until it is free.
func (s *SlotLockService) Lock(doctorID uuid.UUID) {
	s.getDoctorMutex(doctorID).mu.Lock()
}

// Unlock releases the mutex for a doctor.
func (s *SlotLockService) Unlock(doctorID uuid.UUID) {
	s.getDoctorMutex(doctorID).mu.Unlock()
}

// getDoctorMutex returns the mutex for a specific doctor ID
func (s *SlotLockService) getDoctorMutex(doctorID uuid.UUID) *mutexWithTimestamp {
	mt, _ := s.doctorMu.LoadOrStore(doctorID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *SlotLockService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety.
// The lastUsed check happens inside the lock so a concurrent Lock cannot
// refresh the timestamp between our check and the delete.
func (s *SlotLockService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.doctorMu.Range(func(key, value any) bool {
		doctorID, ok := key.(uuid.UUID)
		if !ok {
			return true
		}

		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.doctorMu.Delete(doctorID)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale doctor mutexes", cleaned)
	}
}
