package provisioning

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const (
	base36Alphabet      = "0123456789abcdefghijklmnopqrstuvwxyz"
	discriminatorSuffix = 5
)

// NewDiscriminator returns a variant title that is unique per submission:
// millisecond timestamp plus a short random base36 suffix. The value doubles
// as the variant's option value, so two submissions never collide on the
// platform's option uniqueness rule.
func NewDiscriminator() (string, error) {
	buf := make([]byte, discriminatorSuffix)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating discriminator suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + string(buf), nil
}
