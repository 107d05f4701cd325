package service

import (
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestSlotLock(t *testing.T) *SlotLockService {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewSlotLockService(log)
	t.Cleanup(svc.Stop)
	return svc
}

func TestSlotLock_SerializesSameDoctor(t *testing.T) {
	svc := newTestSlotLock(t)
	doctorID := uuid.New()

	var inCritical, maxInCritical int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Lock(doctorID)
			defer svc.Unlock(doctorID)

			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
}

func TestSlotLock_IndependentDoctors(t *testing.T) {
	svc := newTestSlotLock(t)
	first := uuid.New()
	second := uuid.New()

	svc.Lock(first)
	defer svc.Unlock(first)

	done := make(chan struct{})
	go func() {
		svc.Lock(second)
		svc.Unlock(second)
		close(done)
	}()

	// Must not block on the first doctor's lock
	<-done
}

func TestSlotLock_StopIsIdempotent(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewSlotLockService(log)

	svc.Stop()
	svc.Stop()
}
