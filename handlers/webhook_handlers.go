package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"resumeflow/ingest-gateway/internal/applier"
	"resumeflow/ingest-gateway/internal/events"
	"resumeflow/ingest-gateway/internal/sns"
	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/middleware"
	"resumeflow/ingest-gateway/models"
	"resumeflow/ingest-gateway/utils"
)

// ErrUntrustedTopic is logged when an envelope names a topic other than the
// configured one.
var ErrUntrustedTopic = errors.New("handlers: untrusted topic")

// WebhookResponse is the body of every webhook reply.
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WebhookStatus godoc
// @Summary SNS webhook liveness
// @Description Returns a static payload so load balancers and operators can check the webhook route without side effects.
// @Tags webhooks
// @Produce json
// @Success 200 {object} WebhookResponse
// @Router /api/v1/webhooks/sns [get]
func (h *ApplicationHandler) WebhookStatus(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"message": "SNS webhook endpoint is ready",
	})
}

// SNSWebhook godoc
// @Summary Receive an SNS push delivery
// @Description Authenticates an SNS envelope, confirms subscriptions and applies resume processing events to the matching job.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param envelope body models.Envelope true "SNS envelope"
// @Success 200 {object} WebhookResponse "Processed, confirmed or ignored"
// @Failure 400 {object} WebhookResponse "Malformed envelope, wrong topic or unparseable payload"
// @Failure 403 {object} WebhookResponse "Signature verification failed"
// @Failure 500 {object} WebhookResponse "Persistence or confirmation failure"
// @Router /api/v1/webhooks/sns [post]
func (h *ApplicationHandler) SNSWebhook(c *fiber.Ctx) error {
	var env models.Envelope
	if err := json.Unmarshal(c.Body(), &env); err != nil {
		h.Logger.WithField("request_id", middleware.RequestID(c)).Warnf("Rejected SNS delivery: invalid JSON: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid envelope JSON")
	}
	if err := h.validate.Struct(&env); err != nil {
		h.Logger.WithField("request_id", middleware.RequestID(c)).Warnf("Rejected SNS delivery: %s", utils.JoinValidationErrors(err))
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid envelope: "+utils.JoinValidationErrors(err))
	}

	entry := h.Logger.WithFields(logrus.Fields{
		"request_id":    middleware.RequestID(c),
		"message_id":    env.MessageID,
		"topic_arn":     env.TopicArn,
		"envelope_type": env.Type,
	})

	if env.TopicArn != h.Settings.TopicArn {
		entry.WithError(ErrUntrustedTopic).Warn("Rejected SNS delivery for unexpected topic")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Unexpected topic")
	}

	ctx := c.UserContext()
	if err := h.Verifier.Verify(ctx, &env); err != nil {
		entry.WithError(err).WithField("security_event", true).Error("Rejected SNS delivery: signature verification failed")
		return utils.RespondWithError(c, fiber.StatusForbidden, "Invalid signature")
	}

	ev, err := events.Classify(&env)
	switch {
	case errors.Is(err, events.ErrUnknownEventType):
		entry.WithError(err).Warn("Ignoring SNS notification with unknown event type")
		return utils.RespondWithMessage(c, fiber.StatusOK, "Event type ignored")
	case err != nil:
		entry.WithError(err).Warn("Rejected SNS notification: malformed payload")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Malformed notification payload")
	}

	switch e := ev.(type) {
	case events.Confirmation:
		return h.confirm(c, entry, e)
	case events.Started, events.Completed, events.Failed:
		return h.applyEvent(c, entry, ev)
	default:
		entry.Errorf("No handler for event %T", ev)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Unhandled event")
	}
}

func (h *ApplicationHandler) confirm(c *fiber.Ctx, entry *logrus.Entry, ev events.Confirmation) error {
	if ev.Kind == models.EnvelopeUnsubscribeConfirmation && !h.Settings.ResubscribeOnUnsubscribe {
		entry.Info("Topic subscription removed; not resubscribing")
		return utils.RespondWithMessage(c, fiber.StatusOK, "Unsubscribe acknowledged")
	}
	if ev.SubscribeURL == "" {
		entry.Warn("Rejected confirmation without SubscribeURL")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Missing SubscribeURL")
	}

	if err := h.Confirmer.Confirm(c.UserContext(), ev.SubscribeURL); err != nil {
		if errors.Is(err, sns.ErrUntrustedURL) {
			entry.WithError(err).WithField("security_event", true).Error("Refused to visit untrusted SubscribeURL")
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Untrusted SubscribeURL")
		}
		entry.WithError(err).Error("Subscription confirmation failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Subscription confirmation failed")
	}

	entry.Info("Subscription confirmed")
	return utils.RespondWithMessage(c, fiber.StatusOK, "Subscription confirmed")
}

func (h *ApplicationHandler) applyEvent(c *fiber.Ctx, entry *logrus.Entry, ev events.Event) error {
	entry = entry.WithFields(logrus.Fields{
		"event_type": events.Name(ev),
		"file_key":   events.FileKey(ev),
	})
	ctx := c.UserContext()

	job, err := h.Locator.Locate(ctx, events.FileKey(ev))
	if errors.Is(err, store.ErrNotFound) {
		entry.WithError(err).Warn("No job matches notification; acknowledging")
		return utils.RespondWithMessage(c, fiber.StatusOK, "No matching job")
	}
	if err != nil {
		entry.WithError(fmt.Errorf("%w: %w", applier.ErrPersistence, err)).Error("Job lookup failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not look up job")
	}

	entry = entry.WithField("job_id", job.ID.String())
	if err := h.Applier.Apply(ctx, job, ev); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			entry.WithError(err).Warn("Job vanished before the event was applied; acknowledging")
			return utils.RespondWithMessage(c, fiber.StatusOK, "No matching job")
		}
		entry.WithError(err).Error("Applying processing event failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not apply event")
	}

	entry.Info("Processing event applied")
	return utils.RespondWithMessage(c, fiber.StatusOK, "Event processed")
}
