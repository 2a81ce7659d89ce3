package battle

import "errors"

// Validation errors. A rejected operation appends the error text to the
// session log and changes nothing else.
var (
	ErrInsufficientAP  = errors.New("not enough AP")
	ErrNoTarget        = errors.New("a target is required")
	ErrInvalidTarget   = errors.New("invalid target")
	ErrMustTargetTaunt = errors.New("must attack the taunting enemy")
	ErrNoLivingEnemy   = errors.New("no living enemy")
	ErrCardNotInHand   = errors.New("card is not in hand")
	ErrFeared          = errors.New("too frightened to attack")
	ErrUnplayable      = errors.New("card cannot be played")
)

// errIgnored marks an operation attempted in a state that does not accept it.
var errIgnored = errors.New("ignored")
