package psqlbuilder

import "github.com/Masterminds/squirrel"

// psql builder с плейсхолдерами $1, $2, ... для PostgreSQL
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select возвращает SelectBuilder с PostgreSQL плейсхолдерами
func Select(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...)
}

// Insert возвращает InsertBuilder с PostgreSQL плейсхолдерами
func Insert(into string) squirrel.InsertBuilder {
	return psql.Insert(into)
}

// Update возвращает UpdateBuilder с PostgreSQL плейсхолдерами
func Update(table string) squirrel.UpdateBuilder {
	return psql.Update(table)
}

// Delete возвращает DeleteBuilder с PostgreSQL плейсхолдерами
func Delete(from string) squirrel.DeleteBuilder {
	return psql.Delete(from)
}
