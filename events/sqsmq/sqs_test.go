package sqsmq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/reviewclient/events"
	"github.com/zlnvch/reviewclient/models"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageBatchInput
	failed []types.BatchResultErrorEntry
}

func (f *fakeSQS) SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageBatchOutput{Failed: f.failed}, nil
}

func makeBatch(n int) []events.MutationEvent {
	batch := make([]events.MutationEvent, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, events.NewMutationEvent("comment", "delete", models.TargetKey{Kind: models.TargetComment, Id: int64(i + 1)}, events.OutcomeApplied, ""))
	}
	return batch
}

func TestPublishBatch_ChunksEntries(t *testing.T) {
	fake := &fakeSQS{}
	sink := &SQSEventSink{client: fake, queueURL: "http://localhost:4566/000000000000/mutations"}

	require.NoError(t, sink.PublishBatch(context.Background(), makeBatch(23)))

	require.Len(t, fake.inputs, 3)
	assert.Len(t, fake.inputs[0].Entries, 10)
	assert.Len(t, fake.inputs[1].Entries, 10)
	assert.Len(t, fake.inputs[2].Entries, 3)
	assert.Equal(t, "http://localhost:4566/000000000000/mutations", aws.ToString(fake.inputs[0].QueueUrl))

	var ev events.MutationEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.inputs[2].Entries[0].MessageBody)), &ev))
	assert.Equal(t, int64(21), ev.Target.Id)
}

func TestPublishBatch_ReportsFailedEntries(t *testing.T) {
	fake := &fakeSQS{failed: []types.BatchResultErrorEntry{{Id: aws.String("0"), Message: aws.String("throttled")}}}
	sink := &SQSEventSink{client: fake, queueURL: "q"}

	err := sink.PublishBatch(context.Background(), makeBatch(2))

	assert.ErrorContains(t, err, "throttled")
}

func TestPublishBatch_Empty(t *testing.T) {
	fake := &fakeSQS{}
	sink := &SQSEventSink{client: fake, queueURL: "q"}

	assert.NoError(t, sink.PublishBatch(context.Background(), nil))
	assert.Empty(t, fake.inputs)
}
