package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes operational metrics to CloudWatch. A nil *Metrics is a
// valid no-op receiver so callers need no guards when metrics are disabled.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
}

// NewMetrics creates a metrics publisher under the given namespace
func NewMetrics(client *cloudwatch.Client, namespace string) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
	}
}

// RecordDuration publishes a millisecond timing metric
func (m *Metrics) RecordDuration(ctx context.Context, name string, d time.Duration) {
	if m == nil || m.client == nil {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Unit:       types.StandardUnitMilliseconds,
		Value:      aws.Float64(float64(d.Milliseconds())),
		Timestamp:  aws.Time(time.Now()),
	})
}

// IncrementCounter publishes a count metric
func (m *Metrics) IncrementCounter(ctx context.Context, name string) {
	if m == nil || m.client == nil {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Unit:       types.StandardUnitCount,
		Value:      aws.Float64(1),
		Timestamp:  aws.Time(time.Now()),
	})
}

func (m *Metrics) put(ctx context.Context, datum types.MetricDatum) {
	// Metric publication is best effort; failures never surface to callers.
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
}
