package utils

import (
	"log"
	"math/rand"
	"time"
)

// Retrier re-runs an action under a pluggable backoff strategy. The
// public booking path never retries (a transient failure there propagates
// to the caller); the async notifier uses this because it has no caller
// to propagate to.
type Retrier[T any] struct {
	strategy HandlingStrategy
}

func NewRetrier[T any](strategy HandlingStrategy) *Retrier[T] {
	return &Retrier[T]{strategy: strategy}
}

func (r *Retrier[T]) DoWithReturn(action func() (T, error)) (T, error) {
	var defaultT T
	for {
		result, err := action()
		if err == nil {
			return result, nil
		}
		decision := r.strategy.HandleError(err)
		if decision.ReturnError {
			return defaultT, err
		}
		log.Printf("Retrying due to error: %v. Time to wait: %v\n", err, decision.TimeToWait)
		time.Sleep(decision.TimeToWait)
	}
}

type Decision struct {
	TimeToWait  time.Duration
	ReturnError bool
}

type HandlingStrategy interface {
	HandleError(err error) Decision
}

//NOT THREAD SAFE

type ExponentialBackoffStrategy struct {
	maximumRetries   int
	maxDelay         time.Duration
	jitterPercentage float64

	currentRetryNumber int
	nextDelay          time.Duration
	rndGenerator       *rand.Rand
}

func NewExponentialBackoffStrategy(maximumRetries int, initialDelay time.Duration, jitterPercentage float64, maxDelay time.Duration) *ExponentialBackoffStrategy {
	return &ExponentialBackoffStrategy{
		maximumRetries:     maximumRetries,
		maxDelay:           maxDelay,
		jitterPercentage:   jitterPercentage,
		currentRetryNumber: 0,
		nextDelay:          initialDelay,
		rndGenerator:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (ebs *ExponentialBackoffStrategy) HandleError(err error) Decision {
	if ebs.currentRetryNumber >= ebs.maximumRetries && ebs.maximumRetries != -1 {
		return Decision{ReturnError: true}
	}
	ebs.currentRetryNumber++

	currentDelay := ebs.nextDelay
	nextBaseDelay := ebs.nextDelay * 2
	if nextBaseDelay > ebs.maxDelay {
		nextBaseDelay = ebs.maxDelay
	}
	ebs.nextDelay = ebs.modifyWithJitter(nextBaseDelay)
	return Decision{TimeToWait: currentDelay}
}

func (ebs *ExponentialBackoffStrategy) modifyWithJitter(duration time.Duration) time.Duration {
	maxJitterMilliseconds := int64(float64(duration.Milliseconds()) * ebs.jitterPercentage)
	if maxJitterMilliseconds <= 0 {
		return duration
	}
	jitterMilliseconds := ebs.rndGenerator.Int63n(maxJitterMilliseconds)
	jitterMilliseconds -= maxJitterMilliseconds / 2
	return duration + time.Duration(jitterMilliseconds)*time.Millisecond
}
