package hash

import "golang.org/x/crypto/bcrypt"

type Bcrypt struct {
	cost  int
	dummy string
}

// New returns a bcrypt hasher. Costs outside bcrypt's range use bcrypt.DefaultCost.
func New(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b := &Bcrypt{cost: cost}
	// precomputed so that a lookup miss costs the same as a wrong password
	dummy, err := bcrypt.GenerateFromPassword([]byte("workout-tracker-dummy"), cost)
	if err == nil {
		b.dummy = string(dummy)
	}
	return b
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func (b *Bcrypt) Check(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (b *Bcrypt) Dummy() string {
	return b.dummy
}

func (b *Bcrypt) Cost() int {
	return b.cost
}
