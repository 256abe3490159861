package ledger

import (
	"fmt"
	"time"
)

// TransactionNumber formats a transaction identifier from the commit instant
// and the day's sequence value: TXN-YYYYMMDD-HHMMSS-SSS-NN. The sequence
// suffix is zero-padded to at least two digits and grows as the day's volume
// does, so identifiers sort lexically in commit order within a day.
func TransactionNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("TXN-%s-%03d-%02d", t.Format("20060102-150405"), t.Nanosecond()/int(time.Millisecond), seq)
}
