package engine

import (
	"context"

	"github.com/rs/zerolog/log"
)

type readyState int

const (
	stateProbe readyState = iota
	stateChallengeWait
	stateFastWait
	stateReady
	stateTimeout
)

func (s readyState) String() string {
	switch s {
	case stateProbe:
		return "probe"
	case stateChallengeWait:
		return "challenge_wait"
	case stateFastWait:
		return "fast_wait"
	case stateReady:
		return "ready"
	default:
		return "timeout"
	}
}

// awaitReady probes for a bot challenge, then waits for the ready selector.
// A detected challenge extends the wait so an operator can solve it in the
// visible browser window.
func awaitReady(ctx context.Context, page Page, url, ready string, t Timeouts) error {
	state := stateProbe
	challenged := false
	var waitErr error

	for {
		switch state {
		case stateProbe:
			if page.Present(ctx, ColesChallenge, t.ChallengeProbe) {
				challenged = true
				log.Warn().
					Str("url", url).
					Dur("wait", t.ChallengeWait).
					Msg("Security challenge detected: solve it in the browser window to continue")
				state = stateChallengeWait
			} else {
				state = stateFastWait
			}

		case stateChallengeWait:
			waitErr = page.WaitVisible(ctx, ready, t.ChallengeWait)
			state = next(waitErr)

		case stateFastWait:
			waitErr = page.WaitVisible(ctx, ready, t.Ready)
			state = next(waitErr)

		case stateReady:
			if challenged {
				log.Info().Str("url", url).Msg("Challenge cleared")
			}
			return nil

		case stateTimeout:
			if IsFatal(waitErr) {
				return waitErr
			}
			if challenged {
				return NewEngineError(ErrCodeChallenge, "security challenge not solved", waitErr).
					WithRetry().
					WithDetail("selector", ready)
			}
			return readyError(waitErr, ready)
		}
	}
}

func next(err error) readyState {
	if err != nil {
		return stateTimeout
	}
	return stateReady
}
