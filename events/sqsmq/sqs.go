package sqsmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/zlnvch/reviewclient/events"
)

// SQS accepts at most ten entries per SendMessageBatch call.
const maxBatchEntries = 10

type sqsAPI interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// SQSEventSink ships mutation events to a queue for the back-office.
type SQSEventSink struct {
	client   sqsAPI
	queueURL string
}

func NewSQSEventSink(ctx context.Context, devMode bool, sqsEndpoint string, queueName string) (*SQSEventSink, error) {
	client, err := newSQSClient(ctx, devMode, sqsEndpoint)
	if err != nil {
		return nil, err
	}

	queues, err := getQueues(client, ctx)
	if err != nil {
		return nil, err
	}

	var queueURL string
	for _, q := range queues {
		if strings.HasSuffix(q, "/"+queueName) {
			queueURL = q
			break
		}
	}
	if queueURL == "" {
		return nil, fmt.Errorf("given queue name '%s' not found in SQS", queueName)
	}

	return &SQSEventSink{client: client, queueURL: queueURL}, nil
}

func (s *SQSEventSink) PublishBatch(ctx context.Context, batch []events.MutationEvent) error {
	for start := 0; start < len(batch); start += maxBatchEntries {
		end := min(start+maxBatchEntries, len(batch))

		entries := make([]types.SendMessageBatchRequestEntry, 0, end-start)
		for i, ev := range batch[start:end] {
			body, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			entries = append(entries, types.SendMessageBatchRequestEntry{
				Id:          aws.String(strconv.Itoa(i)),
				MessageBody: aws.String(string(body)),
			})
		}

		out, err := s.client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
			QueueUrl: aws.String(s.queueURL),
			Entries:  entries,
		})
		if err != nil {
			return err
		}
		if out != nil && len(out.Failed) > 0 {
			return fmt.Errorf("sqs rejected %d of %d events: %s", len(out.Failed), len(entries), aws.ToString(out.Failed[0].Message))
		}
	}
	return nil
}
