package imagegen

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/replicate/replicate-go"
	"github.com/samber/lo"

	"github.com/simple-container-com/go-aws-lambda-sdk/pkg/util/retry"
)

// NewReplicate returns a generator running predictions on Replicate.
func NewReplicate(apiToken string) (Generator, error) {
	client, err := replicate.NewClient(replicate.WithToken(apiToken))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init replicate client")
	}
	return &replicateGenerator{client: client}, nil
}

type replicateGenerator struct {
	client *replicate.Client
}

func (g *replicateGenerator) Generate(ctx context.Context, request Request) (*Result, error) {
	model := request.Model
	if model == nil {
		model = FluxProUltra()
	}
	input := replicate.PredictionInput(model.Input(request.Prompt))
	cooldown := lo.If(request.RetryCooldown == 0, time.Second).Else(request.RetryCooldown)

	output, err := retry.With(retry.Config[replicate.PredictionOutput]{
		AttemptErrorCallback: func(i int, err error) {
			log.WithError(err).Warnf("prediction attempt %d on %q failed", i+1, model.Name())
			// Exponential backoff between attempts.
			time.Sleep(cooldown << i)
		},
		Action: func() (replicate.PredictionOutput, error) {
			return g.client.Run(ctx, model.Name(), input, nil)
		},
		MaxRetries: lo.If(request.MaxRetries == 0, 3).Else(request.MaxRetries),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to run %q on replicate", model.Name())
	}
	return resultFromPrediction(output), nil
}

// resultFromPrediction unwraps the pointer handed back by the retry helper
// before decoding, so the type switch sees the prediction output itself.
func resultFromPrediction(output *replicate.PredictionOutput) *Result {
	return resultFromOutput(lo.FromPtr(output))
}

func resultFromOutput(output replicate.PredictionOutput) *Result {
	result := &Result{}
	switch v := output.(type) {
	case string:
		result.URL = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				result.URLs = append(result.URLs, s)
			}
		}
		if len(result.URLs) > 0 {
			result.URL = result.URLs[0]
		}
	default:
		result.URL = fmt.Sprint(v)
	}
	return result
}
