//go:build unit

package commands

import reqdto "stoodioz/internal/handler/dto/request"

// RequestHashForTesting exposes the request fingerprint to replay tests.
func RequestHashForTesting(req reqdto.CreateBookingRequest) string {
	return calculateRequestHash(req)
}
