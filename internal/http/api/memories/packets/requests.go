package packets

// body for creating a memory; the image arrives as a multipart file and is
// checked by the handler.
type NewMemoryForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required,max=255"`
}

// body for editing a memory; the image file is optional.
type EditMemoryForm struct {
	Description string `form:"description" binding:"required,max=255"`
}
