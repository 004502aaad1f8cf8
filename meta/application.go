package meta

// Application contains third party application specific data.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_application
type Application struct {
	// Registered application ID.
	//
	// ref: https://www.xiph.org/flac/id.html
	ID [4]byte
	// Application specific data.
	Data []byte
}

// BlockType returns the block body type of the application block.
func (app *Application) BlockType() Type {
	return TypeApplication
}

// ParseApplication parses data as an application block body; the body
// consists of a 4 byte application ID followed by application specific data.
func ParseApplication(data []byte) (*Application, error) {
	if len(data) < 4 {
		return nil, errInvalid("meta.ParseApplication: invalid body length; expected at least 4, got %d", len(data))
	}
	app := new(Application)
	copy(app.ID[:], data[:4])
	app.Data = append([]byte(nil), data[4:]...)
	return app, nil
}

// Bytes serializes the application block body.
func (app *Application) Bytes() ([]byte, error) {
	data := make([]byte, 0, 4+len(app.Data))
	data = append(data, app.ID[:]...)
	data = append(data, app.Data...)
	return data, nil
}
