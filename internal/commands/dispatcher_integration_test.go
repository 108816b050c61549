package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/gateway"
)

type countingPersister struct {
	saves int
}

func (p *countingPersister) Save(context.Context, entities.State) error {
	p.saves++
	return nil
}

type publishSlide struct {
	Slide entities.Slide
}

func (publishSlide) Type() string { return "firmsite.test.publish_slide" }

func (publishSlide) Validate() error { return nil }

type dropSlide struct {
	ID string
}

func (dropSlide) Type() string { return "firmsite.test.drop_slide" }

func (dropSlide) Validate() error { return nil }

func TestDispatchRetriesTransientFailures(t *testing.T) {
	attempts := 0
	handler := NewHandler(func(ctx context.Context, msg publishSlide) error {
		attempts++
		if attempts == 1 {
			return errors.New("queue busy")
		}
		return nil
	}, WithTimeout[publishSlide](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), publishSlide{Slide: entities.Slide{ID: "hero"}}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected a retry after the first failure, got %d attempts", attempts)
	}
}

func TestDispatchReportsMissingEntity(t *testing.T) {
	persister := &countingPersister{}
	gw := gateway.New(entities.DefaultState(), persister)
	t.Cleanup(func() { _ = gw.Close(context.Background()) })

	attempts := 0
	handler := NewHandler(func(ctx context.Context, msg dropSlide) error {
		attempts++
		return gw.Slides().Remove(ctx, msg.ID)
	}, WithTimeout[dropSlide](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), dropSlide{ID: "no-such-slide"})
	if err == nil {
		t.Fatal("expected dispatch to fail for an unknown slide")
	}
	if attempts != 3 {
		t.Fatalf("expected initial attempt plus two retries, got %d", attempts)
	}
	if persister.saves != 0 {
		t.Fatalf("expected no writes, got %d", persister.saves)
	}
}
