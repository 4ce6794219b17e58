package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrSignal = errors.New("received signal")

// Worker is anything with a blocking run loop bound to a context.
type Worker interface {
	Start(context.Context) error
}

type WorkerFunc func(context.Context) error

func (f WorkerFunc) Start(ctx context.Context) error {
	return f(ctx)
}

// Run starts every worker in one group and stops them all as soon as one
// returns or on SIGINT/SIGTERM. A signal or cancel is a clean stop.
func Run(parent context.Context, workers ...Worker) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	//kill listener
	group.Go(func() error {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(signalChannel)
		select {
		case sig := <-signalChannel:
			log.Printf("received signal: %s\n", sig)
			return fmt.Errorf("%w: %s", ErrSignal, sig)
		case <-groupCtx.Done():
			log.Debugf("closing signal goroutine\n")
			return groupCtx.Err()
		}
	})

	for i := range workers {
		worker := workers[i]
		group.Go(func() error {
			err := worker.Start(groupCtx)
			if err == nil {
				// errgroup only cancels on error
				cancel()
			}
			return err
		})
	}

	err := group.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, ErrSignal) {
			log.Println("context was cancelled")
			return nil
		}
		return fmt.Errorf("stopping due to error - %w", err)
	}
	return nil
}
