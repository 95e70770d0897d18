package errs

// Message catalog indices (1-based lines of errors.txt).
const (
	IndexGeneric           = 1
	IndexInvalidOption     = 2
	IndexFileNotReadable   = 3
	IndexNotANumber        = 4
	IndexOutOfRange        = 5
	IndexDuplicateUsername = 6
	IndexInvalidUsername   = 7
	IndexAllocation        = 8
	IndexSaveFailed        = 9
	IndexNoSavedGame       = 10
)

var (
	ErrInvalidOption     = New("INVALID_OPTION", IndexInvalidOption, KindValidation, "invalid option")
	ErrFileNotReadable   = New("FILE_NOT_READABLE", IndexFileNotReadable, KindIO, "file not readable")
	ErrNotANumber        = New("NOT_A_NUMBER", IndexNotANumber, KindValidation, "not a number")
	ErrOutOfRange        = New("OUT_OF_RANGE", IndexOutOfRange, KindValidation, "number out of range")
	ErrDuplicateUsername = New("DUPLICATE_USERNAME", IndexDuplicateUsername, KindDuplicate, "username already taken")
	ErrInvalidUsername   = New("INVALID_USERNAME", IndexInvalidUsername, KindValidation, "username must contain letters only")
	ErrAllocation        = New("ALLOCATION", IndexAllocation, KindAllocation, "cannot reserve game resources")
	ErrSaveFailed        = New("SAVE_FAILED", IndexSaveFailed, KindStore, "cannot save game")
	ErrNoSavedGame       = New("NO_SAVED_GAME", IndexNoSavedGame, KindStore, "no saved game")
	ErrDuplicateID       = New("DUPLICATE_ID", IndexGeneric, KindDuplicate, "player id already taken")
)
