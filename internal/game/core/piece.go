package core

// PieceType is the catalog name of a piece, as reported by the game server
type PieceType string

const (
	Tank       PieceType = "tank"
	Airplane   PieceType = "airplane"
	Artillery  PieceType = "artillery"
	Helicopter PieceType = "helicopter"
	Antitank   PieceType = "antitank"
	IronDome   PieceType = "irondome"
	Bunker     PieceType = "bunker"
	Spy        PieceType = "spy"
	Tower      PieceType = "tower"
	Satellite  PieceType = "satellite"
	Builder    PieceType = "builder"
)

// AllPieceTypes lists the catalog in a stable order
var AllPieceTypes = []PieceType{
	Tank, Airplane, Artillery, Helicopter, Antitank, IronDome,
	Bunker, Spy, Tower, Satellite, Builder,
}

// Role groups piece types that share a per-turn behavior
type Role int

const (
	RoleNone Role = iota
	RoleAttacker
	RoleAreaAttacker
	RoleFlyer
	RoleDefender
	RoleScout
	RoleBuilder
)

var roleNames = map[Role]string{
	RoleNone:         "none",
	RoleAttacker:     "attacker",
	RoleAreaAttacker: "area_attacker",
	RoleFlyer:        "flyer",
	RoleDefender:     "defender",
	RoleScout:        "scout",
	RoleBuilder:      "builder",
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// Role maps the piece type onto its behavior group
func (t PieceType) Role() Role {
	switch t {
	case Tank, Antitank:
		return RoleAttacker
	case Artillery:
		return RoleAreaAttacker
	case Airplane, Helicopter:
		return RoleFlyer
	case IronDome, Bunker:
		return RoleDefender
	case Spy, Tower, Satellite:
		return RoleScout
	case Builder:
		return RoleBuilder
	default:
		return RoleNone
	}
}

// Valid reports whether t names a catalog piece type
func (t PieceType) Valid() bool {
	return t.Role() != RoleNone
}

// CanAttackTile reports whether the piece attacks the tile it stands on
func (t PieceType) CanAttackTile() bool { return t == Tank || t == Airplane }

// CanAttackDistant reports whether the piece attacks a tile within range
func (t PieceType) CanAttackDistant() bool { return t == Artillery || t == Helicopter }

// CanMove reports whether the piece can leave its tile
func (t PieceType) CanMove() bool { return t != Bunker && t != Tower }

// Piece is a unit as seen in one turn snapshot. Fields that do not apply to the
// piece type are left at their zero values.
type Piece struct {
	ID      string
	Type    PieceType
	Country string
	Coord   Coordinate

	// Builder
	Money int

	// Airplane, Helicopter
	InAir     bool
	TimeInAir int

	// IronDome
	Defending bool
}
