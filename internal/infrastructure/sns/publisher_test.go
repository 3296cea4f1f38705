package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/dogli-api/internal/config"
	"github.com/dogli-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	return &sns.PublishOutput{}, f.err
}

func TestNewPublisher_NoTopic_ReturnsNil(t *testing.T) {
	p, err := NewPublisher(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPublish_SendsEventWithAttributes(t *testing.T) {
	fake := &fakeSNS{}
	p := &Publisher{client: fake, topicARN: "arn:aws:sns:us-east-1:000000000000:checkins"}
	ev := domain.CheckInEvent{
		Type:       domain.EventCheckInCreated,
		CheckIn:    domain.CheckIn{CheckInID: "c1", ParkID: "p1", IsActive: true},
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), ev))

	require.NotNil(t, fake.in)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:checkins", *fake.in.TopicArn)
	assert.Equal(t, domain.EventCheckInCreated, *fake.in.MessageAttributes["event_type"].StringValue)
	assert.Equal(t, "p1", *fake.in.MessageAttributes["park_id"].StringValue)

	var got domain.CheckInEvent
	require.NoError(t, json.Unmarshal([]byte(*fake.in.Message), &got))
	assert.Equal(t, "c1", got.CheckIn.CheckInID)
}

func TestPublish_WrapsClientError(t *testing.T) {
	p := &Publisher{client: &fakeSNS{err: errors.New("boom")}, topicARN: "arn"}
	err := p.Publish(context.Background(), domain.CheckInEvent{Type: domain.EventCheckInClosed})
	assert.ErrorContains(t, err, "sns publish")
}
