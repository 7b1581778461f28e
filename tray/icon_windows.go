package tray

func iconData() []byte { return iconICO }
