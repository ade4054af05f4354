package email

import (
	"strconv"

	"github.com/taskwell/taskwell/internal/port/notifier"
)

func init() {
	notifier.Register(providerName, func(config map[string]string) (notifier.Notifier, error) {
		port, _ := strconv.Atoi(config["port"])
		if port == 0 {
			port = 587
		}
		return NewNotifier(SMTPConfig{
			Host:     config["host"],
			Port:     port,
			From:     config["from"],
			To:       config["to"],
			Password: config["password"],
		}), nil
	})
}
