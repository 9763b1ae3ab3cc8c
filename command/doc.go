/*
	Package command parses the arguments of pgraph commands, separating positional
	arguments from optional settings of the form "<key>=<value>".
*/
package command
