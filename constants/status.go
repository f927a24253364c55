package constants

// Bed status
const (
	BedStatusAvailable   = 0
	BedStatusReserved    = 1
	BedStatusOccupied    = 2
	BedStatusMaintenance = 3
)

// Request status
const (
	RequestStatusPending   = 0
	RequestStatusApproved  = 1
	RequestStatusRejected  = 2
	RequestStatusCancelled = 3
)

// Room type, giá trị cũng là sức chứa danh định của loại phòng
const (
	RoomTypeSingle    = 1
	RoomTypeDouble    = 2
	RoomTypeTriple    = 3
	RoomTypeQuadruple = 4
)

// Ledger entry type
const (
	LedgerTypeAllocate = 1
	LedgerTypeRelease  = 2
)

// Gender policy của hostel
const (
	GenderPolicyAny    = 0
	GenderPolicyMale   = 1
	GenderPolicyFemale = 2
)

// User role
const (
	RoleSuperAdmin = 1
	RoleWarden     = 2
	RoleStaff      = 3
)
