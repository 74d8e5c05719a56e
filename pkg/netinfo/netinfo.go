// Package netinfo отвечает за сетевую интроспекцию хоста: определение
// локального адреса в LAN и подбор свободного порта.
package netinfo

import (
	"fmt"
	"net"
)

// LocalIP возвращает адрес хоста в локальной сети. UDP-"подключение" наружу
// не шлёт пакетов, но заставляет ОС выбрать исходящий интерфейс.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}

// Listen пробует порты начиная с basePort и возвращает первый свободный
// вместе с уже открытым листенером.
func Listen(host string, basePort, attempts int) (net.Listener, int, error) {
	if attempts <= 0 {
		attempts = 1
	}
	for port := basePort; port < basePort+attempts; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
		if err == nil {
			return ln, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no available ports in %d..%d", basePort, basePort+attempts-1)
}
