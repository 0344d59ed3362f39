package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/pkg/types"
)

// maxTurnRetries bounds how many times a whole turn restarts after the
// model stream itself disconnects (as opposed to modelclient's own
// request-level retry, which handles transient HTTP failures before a
// stream is ever established).
const maxTurnRetries = 3

// processedItem pairs one model output item with the ResponseItem it
// produced when handled (a function call's result; nil for a plain
// message, which has nothing to feed back).
type processedItem struct {
	item     types.ResponseItem
	response *types.ResponseItem
}

// runTask drives a whole series of turns for one UserInput submission: it
// emits TaskStarted, loops run_turn until a turn produces no further
// pending tool responses, then emits TaskComplete. A stream error that
// survives every retry ends the task with an Error event instead.
func runTask(ctx context.Context, sess *session, subID string, input []types.ResponseItem) {
	if len(input) == 0 {
		return
	}
	sess.send(types.NewEvent(subID, types.Msg{Type: types.MsgTaskStarted}))

	pending := input
	for {
		netNew := append([]types.ResponseItem(nil), pending...)
		netNew = append(netNew, sess.takePendingInput()...)

		turnInput := netNew
		if full, active := sess.zdrAppendAndSnapshot(netNew); active {
			turnInput = full
		}

		processed, err := runTurn(ctx, sess, subID, turnInput)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sess.send(types.NewEvent(subID, types.Msg{
				Type:  types.MsgError,
				Error: &types.ErrorMsg{Text: err.Error()},
			}))
			return
		}

		var items []types.ResponseItem
		var responses []types.ResponseItem
		for _, p := range processed {
			items = append(items, p.item)
			if p.response != nil {
				responses = append(responses, *p.response)
			}
		}
		if len(items) > 0 {
			sess.recordZdrItems(items)
		}

		if len(responses) == 0 {
			break
		}
		pending = responses
	}

	sess.removeTask(subID)
	sess.send(types.NewEvent(subID, types.Msg{Type: types.MsgTaskComplete}))
}

// runTurn builds the Prompt for one turn — deciding between server-side
// storage (previous_response_id) and replaying the full transcript under
// zero-data-retention — then retries try_run_turn with backoff while the
// stream itself fails, matching modelclient's own retry tuning.
func runTurn(ctx context.Context, sess *session, subID string, input []types.ResponseItem) ([]processedItem, error) {
	prevID, hasPrevID := sess.previousResponseID()
	store := !sess.zdrActive()
	if !store {
		prevID = ""
	}

	instructions := ""
	if !hasPrevID {
		instructions = sess.instructions
	}

	prompt := types.Prompt{
		Input:        input,
		Instructions: instructions,
		PrevID:       prevID,
		Store:        store,
	}

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxInterval = 30 * time.Second
	retry.RandomizationFactor = 0.5
	retry.Multiplier = 2.0
	retry.Reset()

	attempt := 0
	for {
		output, err := tryRunTurn(ctx, sess, subID, prompt)
		if err == nil {
			return output, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt >= maxTurnRetries {
			return nil, err
		}
		attempt++
		delay := retry.NextBackOff()
		logging.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", maxTurnRetries).Dur("delay", delay).Msg("retrying turn after stream error")
		sess.notifyBackgroundEvent(subID, fmt.Sprintf("stream error: %s; retrying (attempt %d of %d)…", err.Error(), attempt, maxTurnRetries))
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// tryRunTurn streams one model turn to completion, buffering every event
// before handling any of them — handling a function call mid-stream could
// block long enough that the stream's idle timeout fires.
func tryRunTurn(ctx context.Context, sess *session, subID string, prompt types.Prompt) ([]processedItem, error) {
	stream, err := sess.client.Stream(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var events []modelclient.ResponseEvent
	for {
		result, ok := stream.Recv()
		if !ok {
			break
		}
		if result.Err != nil {
			return nil, result.Err
		}
		events = append(events, result.Event)
	}

	var output []processedItem
	for _, ev := range events {
		switch ev.Kind {
		case modelclient.OutputItemDone:
			response := handleResponseItem(ctx, sess, subID, ev.Item)
			output = append(output, processedItem{item: ev.Item, response: response})
		case modelclient.Completed:
			sess.setPreviousResponseID(ev.ResponseID)
		}
	}
	return output, nil
}

// handleResponseItem reacts to one output item from the model: a message
// is forwarded straight to the event stream, a function call is dispatched
// and its result returned for the next turn's input, and anything else is
// ignored.
func handleResponseItem(ctx context.Context, sess *session, subID string, item types.ResponseItem) *types.ResponseItem {
	switch item.Type {
	case types.ResponseItemMessage:
		for _, c := range item.Content {
			if c.Type == types.ContentOutputText {
				sess.send(types.NewEvent(subID, types.Msg{
					Type:         types.MsgAgentMessage,
					AgentMessage: &types.AgentMessageMsg{Text: c.Text},
				}))
			}
		}
		return nil
	case types.ResponseItemFunctionCall:
		response := handleFunctionCall(ctx, sess, subID, item.Name, item.Arguments, item.CallID)
		return &response
	default:
		return nil
	}
}
