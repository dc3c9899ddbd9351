package board

// Direction is one of the four compass directions. Slides and tile
// connectivity are both expressed in terms of it.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// RotateClockwise returns the direction a quarter turn clockwise.
func (d Direction) RotateClockwise() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	default:
		return North
	}
}

// RotateCounterClockwise returns the direction a quarter turn counter-clockwise.
func (d Direction) RotateCounterClockwise() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	default:
		return North
	}
}

// Horizontal reports whether the direction runs along a row.
func (d Direction) Horizontal() bool {
	return d == East || d == West
}

// Shape is the fixed path pattern of a connector, before orientation.
type Shape int

const (
	// Bar is a straight path: │ or ─.
	Bar Shape = iota
	// Corner is an elbow: └ ┌ ┐ ┘.
	Corner
	// Tee is a three-way fork: ┬ ┴ ├ ┤.
	Tee
	// Cross is open on all four sides: ┼.
	Cross
)

// Connector is a shape plus its current orientation. For a Bar, North/South
// facing means vertical and East/West horizontal. For a Corner, Facing is the
// side it opens toward together with the next side clockwise (└ faces North).
// For a Tee, Facing is the middle prong (┴ faces North). Cross ignores Facing.
type Connector struct {
	Shape  Shape
	Facing Direction
}

// Open reports whether the connector has an open side toward d.
func (c Connector) Open(d Direction) bool {
	switch c.Shape {
	case Bar:
		if c.Facing == North || c.Facing == South {
			return d == North || d == South
		}
		return d == East || d == West
	case Corner:
		return d == c.Facing || d == c.Facing.RotateClockwise()
	case Tee:
		return d != c.Facing.Opposite()
	case Cross:
		return true
	default:
		return false
	}
}

// Rotate returns the connector turned a quarter turn counter-clockwise.
func (c Connector) Rotate() Connector {
	return Connector{Shape: c.Shape, Facing: c.Facing.RotateCounterClockwise()}
}

// Connected reports whether a step from this connector to other in direction d
// crosses two facing open sides.
func (c Connector) Connected(other Connector, d Direction) bool {
	return c.Open(d) && other.Open(d.Opposite())
}

// Gem names a treasure drawn on a tile. Gems carry no connectivity meaning;
// they exist for display and goal bookkeeping.
type Gem string

// Tile is a single cell of the maze: one connector and an unordered pair of
// gems.
type Tile struct {
	Connector Connector
	Gems      [2]Gem
}

// Rotate turns the tile a quarter turn counter-clockwise in place.
func (t *Tile) Rotate() {
	t.Connector = t.Connector.Rotate()
}

// Connected reports whether this tile links to other through its side in
// direction d.
func (t Tile) Connected(other Tile, d Direction) bool {
	return t.Connector.Connected(other.Connector, d)
}

// canonicalConnectors lists the eleven distinct connector orientations.
var canonicalConnectors = []Connector{
	{Bar, East},     // ─
	{Bar, North},    // │
	{Corner, North}, // └
	{Corner, East},  // ┌
	{Corner, South}, // ┐
	{Corner, West},  // ┘
	{Tee, North},    // ┴
	{Tee, East},     // ├
	{Tee, South},    // ┬
	{Tee, West},     // ┤
	{Cross, North},  // ┼
}

// GemNames is the treasure vocabulary tiles draw from.
var GemNames = []Gem{
	"alexandrite-pear-shape", "alexandrite", "almandine-garnet", "amethyst",
	"ametrine", "ammolite", "apatite", "aplite", "apricot-square-radiant",
	"aquamarine", "australian-marquise", "aventurine", "azurite", "beryl",
	"black-obsidian", "black-onyx", "black-spinel-cushion",
	"blue-ceylon-sapphire", "blue-cushion", "blue-pear-shape",
	"blue-spinel-heart", "bulls-eye", "carnelian", "chrome-diopside",
	"chrysoberyl-cushion", "chrysolite", "citrine-checkerboard", "citrine",
	"clinohumite", "color-change-oval", "cordierite", "diamond",
	"dumortierite", "emerald", "fancy-spinel-marquise", "garnet",
	"golden-diamond-cut", "goldstone", "grandidierite", "gray-agate",
	"green-aventurine", "green-beryl-antique", "green-beryl",
	"green-princess-cut", "grossular-garnet", "hackmanite", "heliotrope",
	"hematite", "iolite-emerald-cut", "jasper", "jaspilite", "kunzite-oval",
	"kunzite", "labradorite", "lapis-lazuli", "lemon-quartz-briolette",
	"magnesite", "mexican-opal", "moonstone", "morganite-oval",
	"moss-agate", "orange-radiant", "padparadscha-oval",
	"padparadscha-sapphire", "peridot", "pink-emerald-cut", "pink-opal",
	"pink-round", "pink-spinel-cushion", "prasiolite", "prehnite",
	"purple-cabochon", "purple-oval", "purple-spinel-trillion",
	"purple-square-cushion", "raw-beryl", "raw-citrine", "red-diamond",
	"red-spinel-square-emerald-cut", "rhodonite", "rock-quartz", "rose-quartz",
	"ruby-diamond-profile", "ruby", "sphalerite", "spinel", "star-cabochon",
	"stilbite", "sunstone", "super-seven", "tanzanite-trillion", "tigers-eye",
	"tourmaline-laser-cut", "tourmaline", "unakite", "white-square",
	"yellow-baguette", "yellow-beryl-oval", "yellow-heart", "yellow-jasper",
	"zircon", "zoisite",
}

// TileFromNum derives a deterministic tile from an index: the connector cycles
// through the eleven orientations and the gem pair walks the gem vocabulary.
// Handy for building test boards without randomness.
func TileFromNum(num int) Tile {
	n := len(GemNames)
	first := num % n
	second := (num/n + num + 1) % n
	if second == first {
		second = (second + 1) % n
	}
	return Tile{
		Connector: canonicalConnectors[num%len(canonicalConnectors)],
		Gems:      [2]Gem{GemNames[first], GemNames[second]},
	}
}
