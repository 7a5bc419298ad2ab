package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"assistec/internal/domain/entities"
	"assistec/internal/domain/lifecycle"
	"assistec/internal/domain/notify"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

// Notices tell the caller what happened to the client message of a
// transition that succeeded.
const (
	// NoticeExternalMessaging: open ExternalLink to send the message.
	NoticeExternalMessaging = "external_messaging"
	// NoticeNoContact: the message was saved to the chat only.
	NoticeNoContact = "saved_without_contact"
	// NoticeNotificationFailed: the primary change is saved but a message may not have been sent.
	NoticeNotificationFailed = "notification_may_not_have_been_sent"
)

var errNoStaffNumber = errors.New("staff whatsapp number not configured")

// EffectOutcome is the result of the secondary effects of one operation.
type EffectOutcome struct {
	ExternalLink string
	Notice       string
	Warnings     []string
}

func (o *EffectOutcome) warn(err error) {
	o.Warnings = append(o.Warnings, err.Error())
	o.Notice = NoticeNotificationFailed
}

// effectRunner performs lifecycle effects once their primary write committed.
// Nothing it does can fail the operation.
type effectRunner struct {
	settings   ISettingsUseCase
	profiles   interfaces.IProfileRepository
	dispatcher INotificationDispatcher
	origin     string
}

func (r effectRunner) run(ctx context.Context, order entities.ServiceOrder, effects []lifecycle.Effect) EffectOutcome {
	var out EffectOutcome
	if len(effects) == 0 || r.dispatcher == nil {
		return out
	}

	settings, err := r.settings.GetNotificationSettings(ctx)
	if err != nil {
		for _, e := range effects {
			out.warn(r.dispatchErr(order, e, err))
		}
		return out
	}
	client := r.client(ctx, order)

	for _, e := range effects {
		nctx := notify.Context{Order: order, Client: client, Settings: settings, Origin: r.origin, Notes: e.Notes}
		switch e.Kind {
		case lifecycle.EffectClientTemplate:
			r.notifyClient(ctx, e, nctx, &out)
		case lifecycle.EffectStaffAlert:
			r.alertStaff(ctx, e, nctx, &out)
		}
	}
	return out
}

func (r effectRunner) notifyClient(ctx context.Context, e lifecycle.Effect, nctx notify.Context, out *EffectOutcome) {
	msg, ok, err := notify.ComposeClient(e.Template, nctx)
	if !ok {
		return
	}
	if err != nil {
		out.warn(r.dispatchErr(nctx.Order, e, err))
		return
	}
	if err := r.dispatcher.Enqueue(ctx, Notification{
		OrderID:  nctx.Order.ID,
		Template: e.Template,
		Channel:  entities.OutboxChannelChat,
		Body:     msg.Body,
	}); err != nil {
		out.warn(err)
		return
	}
	if msg.HasContact() {
		out.ExternalLink = msg.Link
		out.Notice = NoticeExternalMessaging
	} else {
		out.Notice = NoticeNoContact
	}
}

func (r effectRunner) alertStaff(ctx context.Context, e lifecycle.Effect, nctx notify.Context, out *EffectOutcome) {
	tpl, ok := nctx.Settings.Template(e.Template)
	if !ok {
		return
	}
	if notify.PhoneDigits(nctx.Settings.StaffWhatsApp) == "" {
		logger.Info("staff alert skipped", zap.String("order_id", nctx.Order.ID), zap.Error(errNoStaffNumber))
		return
	}
	body := notify.Render(tpl, notify.BuildVars(nctx))
	if err := r.dispatcher.Enqueue(ctx, Notification{
		OrderID:   nctx.Order.ID,
		Template:  e.Template,
		Channel:   entities.OutboxChannelWhatsApp,
		Recipient: nctx.Settings.StaffWhatsApp,
		Body:      body,
	}); err != nil {
		out.warn(err)
	}
}

func (r effectRunner) client(ctx context.Context, order entities.ServiceOrder) entities.Profile {
	if r.profiles == nil || order.ClientID == "" {
		return entities.Profile{}
	}
	p, err := r.profiles.GetByID(ctx, order.ClientID)
	if err != nil {
		logger.Warn("load client for notification failed", zap.String("order_id", order.ID), zap.Error(err))
		return entities.Profile{}
	}
	return p
}

func (r effectRunner) dispatchErr(order entities.ServiceOrder, e lifecycle.Effect, err error) error {
	channel := entities.OutboxChannelChat
	if e.Kind == lifecycle.EffectStaffAlert {
		channel = entities.OutboxChannelWhatsApp
	}
	dErr := &NotificationDispatchError{OrderID: order.ID, Template: e.Template, Channel: channel, Err: err}
	logger.Warn("notification not dispatched", zap.String("order_id", order.ID), zap.Error(dErr))
	return dErr
}
