package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"smsgate/budgetsms"
	"smsgate/history"
	"smsgate/sms"
	"smsgate/zabbix"
)

// Rejections of messages that never reach the gateway.
var (
	errInvalidSender  = errors.New("invalid sender id")
	errInvalidNumber  = errors.New("invalid destination number")
	errInvalidMessage = errors.New("invalid message text")
)

// SMSGate ties the BudgetSMS client to the send log, the
// delivery-report poller and the credit monitor.
type SMSGate struct {
	From        string   `yaml:",omitempty"`            // default sender id
	Check       Duration `yaml:",omitempty"`            // delivery report poll interval
	CreditCheck Duration `yaml:"creditCheck,omitempty"` // credit monitor interval

	client  *budgetsms.Client
	history *history.DB
	zabbix  *zabbix.Sender
	stop    chan struct{}
	wg      sync.WaitGroup
}

// Send validates the message, submits it and records it in the send
// log. An empty from falls back to the configured default sender.
func (s *SMSGate) Send(ctx context.Context, from, to, text string) (*budgetsms.SendResult, error) {
	if from == "" {
		from = s.From
	}
	if !budgetsms.ValidSender(from) {
		return nil, errInvalidSender
	}
	if !budgetsms.ValidPhoneNumber(to) {
		return nil, errInvalidNumber
	}
	if !budgetsms.ValidMessage(text) {
		return nil, errInvalidMessage
	}
	msg := budgetsms.Message{
		From:      from,
		To:        to,
		Body:      text,
		CustomID:  uuid.New().String(),
		WantPrice: true,
	}
	res, err := s.client.Send(ctx, msg)
	if err != nil {
		return nil, err
	}
	parts := sms.Parts(text)
	logrus.WithFields(logrus.Fields{
		"id":    res.ID,
		"from":  from,
		"to":    to,
		"parts": parts,
		"price": res.Price,
	}).Info("Message sent")
	if s.history != nil {
		err = s.history.Insert(history.Entry{
			SMSID:    res.ID,
			CustomID: msg.CustomID,
			From:     from,
			To:       to,
			Text:     text,
			Parts:    parts,
			Price:    res.Price,
			Status:   int(budgetsms.StatusPending),
		})
		if err != nil {
			logrus.WithError(err).Error("History insert error")
		}
	}
	return res, nil
}

// Start launches the pollers.
func (s *SMSGate) Start() {
	s.stop = make(chan struct{})
	if s.Check > 0 && s.history != nil {
		s.wg.Add(1)
		go s.checkLoop(s.history, s.stop)
	}
	if s.CreditCheck > 0 {
		s.wg.Add(1)
		go s.creditLoop(s.stop)
	}
}

// Stop stops the pollers and waits for them to exit before closing the
// send log underneath them.
func (s *SMSGate) Stop() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.wg.Wait()
	if s.history != nil {
		s.history.Close()
	}
}

// checkLoop pulls delivery reports of unsettled messages until their
// state is final.
func (s *SMSGate) checkLoop(db *history.DB, stop chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Duration(s.Check))
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		// a closed stop channel and a ready ticker race in the select
		select {
		case <-stop:
			return
		default:
		}
		ids, err := db.Pending()
		if err != nil {
			logrus.WithError(err).Error("History query error")
			continue
		}
		for _, id := range ids {
			report, err := s.client.Status(context.Background(), id)
			if err != nil {
				logrus.WithError(err).WithField("id", id).Error("Status check error")
				continue
			}
			logrus.WithFields(logrus.Fields{
				"id":     id,
				"status": int(report.Status),
			}).Info(report.Status.String())
			err = db.UpdateStatus(id, int(report.Status), report.Status.Final())
			if err != nil {
				logrus.WithError(err).Error("History update error")
			}
		}
	}
}

// creditLoop reports the account balance to the log and, when
// configured, to zabbix.
func (s *SMSGate) creditLoop(stop chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Duration(s.CreditCheck))
	defer ticker.Stop()
	for {
		credit, err := s.client.Credit(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Credit check error")
		} else {
			logrus.WithField("credit", credit).Info("Credit balance")
			if s.zabbix != nil {
				if err = s.zabbix.SendFloat("budgetsms.credit", credit); err != nil {
					logrus.WithError(err).Warning("Zabbix send error")
				}
			}
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
