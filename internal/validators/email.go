// Package validators agrupa chequeos de datos de entrada que van más
// allá de los binding tags de gin.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid hace un chequeo barato de existencia del dominio
// antes de crear la cuenta: alcanza con que tenga registros MX o que
// resuelva a alguna IP. No valida el buzón ni manda nada.
func IsEmailDomainValid(email string) bool {
	domain := emailDomain(email)
	if domain == "" {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
