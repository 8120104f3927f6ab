// Package zabbix pushes single values to a zabbix server through the
// zabbix_sender utility.
package zabbix

import (
	"os/exec"
	"strconv"
)

// Sender identifies the zabbix server and the host name the values are
// reported under.
type Sender struct {
	Server string // zabbix server address
	Host   string // host name as configured in zabbix
}

// Send pushes one key/value pair.
func (z *Sender) Send(key, value string) error {
	return exec.Command("zabbix_sender",
		"-z", z.Server,
		"-s", z.Host,
		"-k", key,
		"-o", value).Run()
}

// SendFloat pushes one numeric value.
func (z *Sender) SendFloat(key string, value float64) error {
	return z.Send(key, strconv.FormatFloat(value, 'f', -1, 64))
}
