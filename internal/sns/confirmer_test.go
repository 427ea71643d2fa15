package sns

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubscribeURL = "https://sns.us-east-1.amazonaws.com/?Action=ConfirmSubscription&TopicArn=arn%3Aaws%3Asns%3Aus-east-1%3A123456789012%3Aresume-processing&Token=tok"

func TestConfirmer_Confirm(t *testing.T) {
	rt := &countingTransport{body: []byte("<ConfirmSubscriptionResponse/>")}
	c := NewConfirmer(&http.Client{Transport: rt}, time.Second)

	require.NoError(t, c.Confirm(context.Background(), testSubscribeURL))
	assert.Equal(t, []string{testSubscribeURL}, rt.urls)
}

func TestConfirmer_UntrustedURL(t *testing.T) {
	rt := &countingTransport{}
	c := NewConfirmer(&http.Client{Transport: rt}, time.Second)

	err := c.Confirm(context.Background(), "https://attacker.example/confirm")
	assert.ErrorIs(t, err, ErrUntrustedURL)
	assert.Zero(t, rt.Calls())
}

func TestConfirmer_Failures(t *testing.T) {
	cases := map[string]*countingTransport{
		"network": {err: errors.New("dial tcp: timeout")},
		"status":  {status: http.StatusForbidden},
	}
	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewConfirmer(&http.Client{Transport: rt}, time.Second)
			err := c.Confirm(context.Background(), testSubscribeURL)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrUntrustedURL)
		})
	}
}
