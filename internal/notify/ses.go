package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the slice of the SESv2 client the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Config holds SES sending settings.
type Config struct {
	Region     string   `yaml:"region"`
	AccessKey  string   `yaml:"access_key"`
	SecretKey  string   `yaml:"secret_key"`
	Sender     string   `yaml:"sender"`
	Recipients []string `yaml:"recipients"`
}

// SESNotifier sends notifications through AWS SESv2 as raw MIME messages so
// a zip archive can ride along as an attachment.
type SESNotifier struct {
	client     SESAPI
	sender     string
	recipients []string
}

// NewSESNotifier creates a notifier with static credentials, matching how the
// rest of our AWS clients are constructed.
func NewSESNotifier(ctx context.Context, cfg Config) (*SESNotifier, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESNotifier{
		client:     sesv2.NewFromConfig(awsCfg),
		sender:     cfg.Sender,
		recipients: cfg.Recipients,
	}, nil
}

// SetClient sets a custom SES client (useful for testing).
func (n *SESNotifier) SetClient(client SESAPI) { n.client = client }

// Notify sends one email to the configured recipients. With an attachment
// path the message is multipart/mixed; without one it is plain text.
func (n *SESNotifier) Notify(ctx context.Context, subject, body, attachmentPath string) error {
	raw, err := buildMIME(n.sender, n.recipients, subject, body, attachmentPath)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	_, err = n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.sender),
		Destination:      &types.Destination{ToAddresses: n.recipients},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	log.Printf("[notify] sent %q to %d recipients (attachment=%v)",
		subject, len(n.recipients), attachmentPath != "")
	return nil
}

// buildMIME assembles the raw RFC 5322 message.
func buildMIME(sender string, recipients []string, subject, body, attachmentPath string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", sender)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	if attachmentPath == "" {
		fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(body)
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	part, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(attachmentPath)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	name := filepath.Base(attachmentPath)
	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", "application/octet-stream")
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	part, err = mw.CreatePart(attHeader)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(payload)
	// 76-character lines per RFC 2045.
	for len(encoded) > 0 {
		n := 76
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := part.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[n:]
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
