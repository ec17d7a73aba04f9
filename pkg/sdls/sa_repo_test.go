package sdls

import (
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
)

// memRepo is a small in-memory sa.Repository for pipeline tests, mirroring
// the shape a gorm-backed store would present without pulling in a database.
type memRepo struct {
	bySPI map[uint16]*sa.SA
}

func newMemRepo(sas ...*sa.SA) *memRepo {
	r := &memRepo{bySPI: make(map[uint16]*sa.SA)}
	for _, s := range sas {
		r.bySPI[s.SPI] = s
	}
	return r
}

func (r *memRepo) GetBySPI(spi uint16) (*sa.SA, error) {
	s, ok := r.bySPI[spi]
	if !ok {
		return nil, sa.ErrNotFound
	}
	return s, nil
}

func (r *memRepo) GetOperational(g sa.GVCID) (*sa.SA, error) {
	for _, s := range r.bySPI {
		if s.GVCID == g && s.State == sa.Operational {
			return s, nil
		}
	}
	return nil, sa.ErrNotFound
}

func (r *memRepo) Save(s *sa.SA) error {
	r.bySPI[s.SPI] = s
	return nil
}
