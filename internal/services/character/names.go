package character

// randomNames seeds !random when the player gives no name.
var randomNames = []string{
	"Aria", "Borin", "Cael", "Dara", "Eldon", "Fenna", "Garrick", "Hesta",
	"Ilyra", "Jorund", "Kaela", "Lorcan", "Mira", "Nerys", "Orrin", "Petra",
	"Quill", "Rhea", "Soren", "Talia", "Ulric", "Vesper", "Wren", "Yorin",
}
