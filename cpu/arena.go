package cpu

const (
	REGISTER_COUNT         = 32     // General purpose registers r0-r31.
	IMMEDIATE_REGISTER_MIN = 16     // Lowest register accepting immediate loads.
	IMMEDIATE_MAX          = 0xff   // Largest 8-bit immediate.
	STACK_TOP              = 0x3e3d // Top of the stack; the entry sentinel lives here.
	HEAP_BASE              = 0x0100 // First heap address handed out by Allocate.
	RETURN_SENTINEL        = 0xffff // Return address of the entry function.
	DEFAULT_MAX_JUMPS      = 10     // Batch mode label visits before aborting.
)
