package utils

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const refundNoPrefix = "REF"

// GenerateRefundNo builds a business-facing refund number:
// REF + YYYYMMDD + 4-digit user suffix + 4-digit order suffix + 4 random digits.
// The scheme biases toward uniqueness but does not guarantee it; callers must
// treat a unique-constraint violation on insert as recoverable and regenerate.
func GenerateRefundNo(userID, orderID uuid.UUID) string {
	datePart := time.Now().Format("20060102")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return refundNoPrefix + datePart + idSuffix(userID) + idSuffix(orderID) + randomPart
}

// idSuffix derives a stable 4-digit suffix from the trailing bytes of a UUID.
func idSuffix(id uuid.UUID) string {
	v := binary.BigEndian.Uint32(id[12:16])
	return fmt.Sprintf("%04d", v%10000)
}
