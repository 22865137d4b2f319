package csvio

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/txproc/txproc/internal/domain"
)

// WriteSnapshot formats the final balance snapshot, one row per client,
// sorted by client id with all monetary fields at four decimal places.
func WriteSnapshot(w io.Writer, snaps []domain.AccountSnapshot) error {
	sorted := make([]domain.AccountSnapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClientID < sorted[j].ClientID })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return errors.Wrap(err, "write header")
	}

	for _, s := range sorted {
		row := []string{
			strconv.FormatUint(uint64(s.ClientID), 10),
			s.Available.StringFixed(4),
			s.Held.StringFixed(4),
			s.Total.StringFixed(4),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write snapshot for client %d", s.ClientID)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush snapshot")
}
