package notify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSES struct {
	inputs []*sesv2.SendEmailInput
}

func (c *capturingSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	c.inputs = append(c.inputs, params)
	return &sesv2.SendEmailOutput{}, nil
}

func TestNotifyPlainBody(t *testing.T) {
	ses := &capturingSES{}
	n := &SESNotifier{client: ses, sender: "reports@example.com", recipients: []string{"team@example.com"}}

	err := n.Notify(context.Background(), "MISSING SKU FOR MULTIPLE BRANDS", "Brand X is missing SKUs", "")
	require.NoError(t, err)
	require.Len(t, ses.inputs, 1)

	raw := string(ses.inputs[0].Content.Raw.Data)
	assert.Contains(t, raw, "Subject: MISSING SKU FOR MULTIPLE BRANDS")
	assert.Contains(t, raw, "Brand X is missing SKUs")
	assert.NotContains(t, raw, "multipart/mixed")
	assert.Equal(t, []string{"team@example.com"}, ses.inputs[0].Destination.ToAddresses)
}

func TestNotifyWithAttachment(t *testing.T) {
	dir := t.TempDir()
	attachment := filepath.Join(dir, "Weekly Marketing Data 09.03 - 15.03.zip")
	require.NoError(t, os.WriteFile(attachment, []byte("zip-bytes"), 0o644))

	ses := &capturingSES{}
	n := &SESNotifier{client: ses, sender: "reports@example.com", recipients: []string{"a@example.com", "b@example.com"}}

	err := n.Notify(context.Background(), "Marketing Weekly Data Report 09.03 - 15.03", "see attachment", attachment)
	require.NoError(t, err)
	require.Len(t, ses.inputs, 1)

	raw := string(ses.inputs[0].Content.Raw.Data)
	assert.Contains(t, raw, "multipart/mixed")
	assert.Contains(t, raw, `filename="Weekly Marketing Data 09.03 - 15.03.zip"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
}

func TestNotifyMissingAttachmentFile(t *testing.T) {
	ses := &capturingSES{}
	n := &SESNotifier{client: ses, sender: "reports@example.com", recipients: []string{"a@example.com"}}

	err := n.Notify(context.Background(), "subject", "body", "/nonexistent/archive.zip")
	assert.Error(t, err)
	assert.Empty(t, ses.inputs)
}
