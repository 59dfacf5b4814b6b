package engine

// Rejection is the reason an action was refused. It is returned as an error
// by AttemptMove and AttemptPlaceWall; the game state is unchanged.
type Rejection int

const (
	RejectNoAction Rejection = iota + 1
	RejectTooFar
	RejectThroughWall

	// Jump rejections
	RejectJumpNoOpponent
	RejectJumpWallBetween
	RejectJumpWallBehind
	RejectJumpNoWallBehind
	RejectJumpWallToDestination

	// Wall rejections
	RejectNoWallLeft
	RejectWallOverlap
	RejectBlockSelf
	RejectBlockOther
)

var rejectionCodes = map[Rejection]string{
	RejectNoAction:              "no_action",
	RejectTooFar:                "too_far",
	RejectThroughWall:           "through_wall",
	RejectJumpNoOpponent:        "jump_no_opponent",
	RejectJumpWallBetween:       "jump_wall_between",
	RejectJumpWallBehind:        "jump_wall_behind",
	RejectJumpNoWallBehind:      "jump_no_wall_behind",
	RejectJumpWallToDestination: "jump_wall_to_destination",
	RejectNoWallLeft:            "no_wall_left",
	RejectWallOverlap:           "wall_overlap",
	RejectBlockSelf:             "block_self",
	RejectBlockOther:            "block_other",
}

var rejectionMessages = map[Rejection]string{
	RejectNoAction:              "you must move or place a wall",
	RejectTooFar:                "you cannot move that far",
	RejectThroughWall:           "you cannot pass through a wall",
	RejectJumpNoOpponent:        "to jump, you need an opponent next to you",
	RejectJumpWallBetween:       "to jump, you need no wall between you and your opponent",
	RejectJumpWallBehind:        "to jump over an opponent, you need no wall behind them",
	RejectJumpNoWallBehind:      "to jump beside an opponent, you need a wall or the board edge behind them",
	RejectJumpWallToDestination: "to jump beside an opponent, you need no wall between them and the destination",
	RejectNoWallLeft:            "you have no wall left to place",
	RejectWallOverlap:           "walls cannot overlap or intersect",
	RejectBlockSelf:             "you cannot fully block yourself",
	RejectBlockOther:            "you cannot fully block another player",
}

// Rejections lists every rejection in declaration order.
func Rejections() []Rejection {
	all := make([]Rejection, 0, len(rejectionCodes))
	for r := RejectNoAction; r <= RejectBlockOther; r++ {
		all = append(all, r)
	}
	return all
}

// ParseRejection returns the rejection with the given code.
func ParseRejection(code string) (Rejection, bool) {
	for r, c := range rejectionCodes {
		if c == code {
			return r, true
		}
	}
	return 0, false
}

// Code returns a stable machine-readable identifier.
func (r Rejection) Code() string {
	if code, ok := rejectionCodes[r]; ok {
		return code
	}
	return "unknown"
}

func (r Rejection) Error() string {
	if msg, ok := rejectionMessages[r]; ok {
		return msg
	}
	return "unknown rejection"
}

// IsJump reports whether r belongs to the jump family.
func (r Rejection) IsJump() bool {
	return r >= RejectJumpNoOpponent && r <= RejectJumpWallToDestination
}

func (r Rejection) MarshalText() ([]byte, error) {
	return []byte(r.Code()), nil
}
