package repository

// Table names.
const (
	PlayersTable = "jugadores"
	BallTable    = "balon"
)

// Statements are written in the subset of CQL that SQLite also accepts, so
// both drivers share them.
const (
	InsertPlayers = `INSERT INTO jugadores (id_jugador, id_video, numero_cuadro, equipo, color_equipo, posicion_x, posicion_y, velocidad, distancia_recorrida, tiene_balon) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	InsertBalls   = `INSERT INTO balon (id_balon, id_video, numero_cuadro, posicion_x, posicion_y, id_jugador_asignado, equipo_en_control) VALUES (?, ?, ?, ?, ?, ?, ?)`

	CountPlayers = `SELECT COUNT(*) AS total FROM jugadores WHERE id_video = ?`
	CountBalls   = `SELECT COUNT(*) AS total FROM balon WHERE id_video = ?`

	DeletePlayers = `DELETE FROM jugadores WHERE id_video = ?`
	DeleteBalls   = `DELETE FROM balon WHERE id_video = ?`
)

// Table binds a table name to its statements.
type Table struct {
	Name   string
	Insert string
	Count  string
	Delete string
}

// Tables in write order.
var (
	Players = Table{Name: PlayersTable, Insert: InsertPlayers, Count: CountPlayers, Delete: DeletePlayers}
	Balls   = Table{Name: BallTable, Insert: InsertBalls, Count: CountBalls, Delete: DeleteBalls}
)
