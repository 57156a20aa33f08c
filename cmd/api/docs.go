package main

// @title           PDV Fiscal API
// @version         1.0
// @description     API de numeração, emissão e contingência fiscal para terminais de PDV

// @contact.name   Suporte
// @contact.email  suporte@pdv-fiscal.local

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
