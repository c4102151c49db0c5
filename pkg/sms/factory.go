package sms

import (
	"log"

	"github.com/edvora/edvora-api/internal/configs"
)

func NewSenderService(cfg *configs.Config) Sender {
	if cfg.SMS.AccountSID == "" || cfg.SMS.AuthToken == "" {
		log.Println("INFO: SMS credentials not configured, logging messages instead of sending.")
		return LogSender{}
	}
	return NewTwilioSender(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber)
}
